package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mull2536/voice-agent/internal/audio"
	"github.com/mull2536/voice-agent/internal/capture"
	"github.com/mull2536/voice-agent/internal/config"
	"github.com/mull2536/voice-agent/internal/emit"
	"github.com/mull2536/voice-agent/internal/metrics"
	"github.com/mull2536/voice-agent/internal/segment"
	"github.com/mull2536/voice-agent/internal/server"
	"github.com/mull2536/voice-agent/internal/vad"
)

const (
	serviceName    = "voice-agent"
	serviceVersion = "1.0.0"
)

func main() {
	// Parse command line flags. The three tuning flags mirror the historical
	// CLI and override the config file when set explicitly.
	configPath := flag.String("config", "", "Path to configuration file (defaults apply when empty)")
	threshold := flag.Float64("threshold", 0.5, "VAD threshold (0-1)")
	minDuration := flag.Int("min-duration", 250, "Minimum speech duration in ms")
	sampleRate := flag.Int("sample-rate", 16000, "Audio sample rate")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			cfg.VAD.Threshold = *threshold
		case "min-duration":
			cfg.VAD.MinSpeechDurationMs = *minDuration
		case "sample-rate":
			cfg.Audio.SampleRate = *sampleRate
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Diagnostics go to stderr; stdout carries the event protocol.
	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Int("frame_samples", cfg.Audio.FrameSamples()),
		slog.String("vad_engine", cfg.VAD.Engine),
		slog.Float64("vad_threshold", cfg.VAD.Threshold),
		slog.Int("min_speech_duration_ms", cfg.VAD.MinSpeechDurationMs),
		slog.Int("silence_hangover_frames", cfg.VAD.SilenceHangoverFrames),
	)

	appMetrics := metrics.New()

	engine, err := newEngine(cfg.VAD, cfg.Audio.SampleRate)
	if err != nil {
		logger.Error("Failed to create VAD engine", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer engine.Close()

	// Build the event sink chain: protocol emitter, optional WAV dump,
	// metrics decoration outermost.
	var sink segment.Sink = emit.New(os.Stdout, logger)
	if cfg.Output.DumpDir != "" {
		sink, err = segment.NewDumpSink(sink, cfg.Output.DumpDir, cfg.Audio.SampleRate, logger)
		if err != nil {
			logger.Error("Failed to create utterance dump directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	sink = segment.NewMeteredSink(sink, appMetrics)

	segmenter, err := segment.New(segment.Config{
		MinSpeechDuration:     cfg.VAD.GetMinSpeechDuration(),
		SilenceHangoverFrames: cfg.VAD.SilenceHangoverFrames,
	}, engine, sink)
	if err != nil {
		logger.Error("Failed to create segmenter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	queue := audio.NewFrameQueue(cfg.Queue.Capacity)
	pipeline := segment.NewPipeline(queue, segmenter, cfg.Queue.GetPopTimeout(), logger, appMetrics)

	source, err := capture.NewPortAudioSource(
		capture.Config{
			SampleRate:   cfg.Audio.SampleRate,
			FrameSamples: cfg.Audio.FrameSamples(),
		},
		func(frame []float32) {
			appMetrics.FramesCaptured.Inc()
			if !queue.Push(frame) {
				appMetrics.FramesDropped.Inc()
			}
		},
		func() {
			appMetrics.CaptureOverflows.Inc()
			logger.Warn("capture period lost to input overflow")
		},
		logger,
	)
	if err != nil {
		logger.Error("Failed to open capture device", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg.HTTP, logger, pipeline)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start monitoring server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := source.Start(); err != nil {
		logger.Error("Failed to start capture", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return pipeline.Run(gctx)
	})

	g.Go(func() error {
		// Stop delivering frames as soon as shutdown begins; the pipeline
		// then drains the queue and force-closes any open utterance.
		<-gctx.Done()
		if err := source.Stop(); err != nil {
			logger.Error("Error stopping capture", slog.String("error", err.Error()))
		}
		return nil
	})

	runErr := g.Wait()

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping monitoring server", slog.String("error", err.Error()))
		}
	}

	stats := pipeline.GetStats()
	logger.Info("Final statistics",
		slog.Uint64("frames_processed", stats.FramesProcessed),
		slog.Uint64("frames_dropped", stats.FramesDropped),
	)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("Service stopped with error", slog.String("error", runErr.Error()))
		os.Exit(1)
	}

	logger.Info("Service stopped")
}

// newEngine constructs the configured voice activity engine
func newEngine(cfg config.VADConfig, sampleRate int) (vad.Engine, error) {
	switch cfg.Engine {
	case "silero":
		return vad.NewSileroEngine(cfg.ModelPath, sampleRate, cfg.Threshold)
	case "energy":
		return vad.NewEnergyEngine(cfg.Threshold)
	default:
		return nil, fmt.Errorf("unknown vad engine '%s'", cfg.Engine)
	}
}

// initLogger creates the structured logger. Output is pinned to stderr so
// diagnostics can never interleave with protocol lines on stdout.
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
