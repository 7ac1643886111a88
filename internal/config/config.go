package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	Queue   QueueConfig   `yaml:"queue"`
	VAD     VADConfig     `yaml:"vad"`
	Output  OutputConfig  `yaml:"output"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// AudioConfig contains capture and framing parameters
type AudioConfig struct {
	SampleRate      int `yaml:"sample_rate"`       // Hz
	FrameDurationMs int `yaml:"frame_duration_ms"` // capture period per frame
}

// QueueConfig contains frame queue parameters
type QueueConfig struct {
	Capacity     int `yaml:"capacity"`       // frames
	PopTimeoutMs int `yaml:"pop_timeout_ms"` // consumer poll interval
}

// VADConfig contains voice activity detection configuration
type VADConfig struct {
	Engine                string  `yaml:"engine"` // "silero" or "energy"
	ModelPath             string  `yaml:"model_path"`
	Threshold             float64 `yaml:"threshold"`
	MinSpeechDurationMs   int     `yaml:"min_speech_duration_ms"`
	SilenceHangoverFrames int     `yaml:"silence_hangover_frames"`
}

// OutputConfig contains optional output artifact configuration
type OutputConfig struct {
	DumpDir string `yaml:"dump_dir"` // when set, emitted utterances are also saved as WAV files
}

// HTTPConfig contains the monitoring HTTP server configuration
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file is provided.
// The values match the historical CLI defaults of the segmenter.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:      16000,
			FrameDurationMs: 10,
		},
		Queue: QueueConfig{
			Capacity:     64,
			PopTimeoutMs: 100,
		},
		VAD: VADConfig{
			Engine:                "energy",
			Threshold:             0.5,
			MinSpeechDurationMs:   250,
			SilenceHangoverFrames: 10,
		},
		HTTP: HTTPConfig{
			Enabled: false,
			Address: "127.0.0.1",
			Port:    9090,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs validation of the complete configuration
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.VAD.Validate(); err != nil {
		return fmt.Errorf("vad config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", a.SampleRate)
	}

	if a.FrameDurationMs <= 0 {
		return fmt.Errorf("frame_duration_ms must be positive, got %d", a.FrameDurationMs)
	}

	if a.SampleRate*a.FrameDurationMs%1000 != 0 {
		return fmt.Errorf("frame_duration_ms %d does not yield a whole number of samples at %d Hz",
			a.FrameDurationMs, a.SampleRate)
	}

	return nil
}

// Validate validates queue configuration
func (q *QueueConfig) Validate() error {
	if q.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", q.Capacity)
	}

	if q.PopTimeoutMs < 1 {
		return fmt.Errorf("pop_timeout_ms must be at least 1, got %d", q.PopTimeoutMs)
	}

	return nil
}

// Validate validates VAD configuration
func (v *VADConfig) Validate() error {
	validEngines := map[string]bool{"silero": true, "energy": true}
	if !validEngines[v.Engine] {
		return fmt.Errorf("engine must be 'silero' or 'energy', got '%s'", v.Engine)
	}

	if v.Engine == "silero" && v.ModelPath == "" {
		return fmt.Errorf("model_path cannot be empty for the silero engine")
	}

	if v.Threshold <= 0 || v.Threshold >= 1 {
		return fmt.Errorf("threshold must be strictly between 0 and 1, got %f", v.Threshold)
	}

	if v.MinSpeechDurationMs <= 0 {
		return fmt.Errorf("min_speech_duration_ms must be positive, got %d", v.MinSpeechDurationMs)
	}

	if v.SilenceHangoverFrames < 1 {
		return fmt.Errorf("silence_hangover_frames must be at least 1, got %d", v.SilenceHangoverFrames)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration. Logs always go to stderr:
// stdout carries the event protocol and must never receive diagnostics.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// FrameSamples returns the number of samples in one capture frame
func (a *AudioConfig) FrameSamples() int {
	return a.SampleRate * a.FrameDurationMs / 1000
}

// GetPopTimeout returns the queue pop timeout as a time.Duration
func (q *QueueConfig) GetPopTimeout() time.Duration {
	return time.Duration(q.PopTimeoutMs) * time.Millisecond
}

// GetMinSpeechDuration returns the minimum utterance duration as a time.Duration
func (v *VADConfig) GetMinSpeechDuration() time.Duration {
	return time.Duration(v.MinSpeechDurationMs) * time.Millisecond
}
