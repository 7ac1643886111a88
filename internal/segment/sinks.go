package segment

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mull2536/voice-agent/internal/audio"
	"github.com/mull2536/voice-agent/internal/metrics"
)

// MeteredSink decorates a sink with Prometheus utterance instrumentation
type MeteredSink struct {
	inner   Sink
	metrics *metrics.Metrics
	opened  time.Time
}

// NewMeteredSink wraps inner so utterance boundaries and payloads update the
// given metrics
func NewMeteredSink(inner Sink, m *metrics.Metrics) *MeteredSink {
	return &MeteredSink{inner: inner, metrics: m}
}

func (s *MeteredSink) SpeechStart() {
	s.opened = time.Now()
	s.metrics.UtterancesStarted.Inc()
	s.inner.SpeechStart()
}

func (s *MeteredSink) SpeechEnd() {
	s.metrics.UtteranceDuration.Observe(time.Since(s.opened).Seconds())
	s.inner.SpeechEnd()
}

func (s *MeteredSink) Audio(pcm []byte) {
	s.metrics.UtterancesEmitted.Inc()
	s.metrics.UtteranceBytes.Observe(float64(len(pcm)))
	s.inner.Audio(pcm)
}

// DumpSink decorates a sink so every emitted payload is also written to a
// WAV file in dir. Dump failures are logged and never interfere with event
// emission.
type DumpSink struct {
	inner      Sink
	dir        string
	sampleRate int
	logger     *slog.Logger
}

// NewDumpSink creates a dumping decorator writing utterance WAV files to dir
func NewDumpSink(inner Sink, dir string, sampleRate int, logger *slog.Logger) (*DumpSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DumpSink{
		inner:      inner,
		dir:        dir,
		sampleRate: sampleRate,
		logger:     logger,
	}, nil
}

func (s *DumpSink) SpeechStart() { s.inner.SpeechStart() }

func (s *DumpSink) SpeechEnd() { s.inner.SpeechEnd() }

func (s *DumpSink) Audio(pcm []byte) {
	s.inner.Audio(pcm)

	wav, err := audio.EncodeWAV(pcm, s.sampleRate)
	if err != nil {
		s.logger.Warn("failed to encode utterance dump", slog.String("error", err.Error()))
		return
	}

	path := filepath.Join(s.dir, "utterance-"+uuid.NewString()+".wav")
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		s.logger.Warn("failed to write utterance dump",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Debug("utterance dumped", slog.String("path", path), slog.Int("bytes", len(wav)))
}
