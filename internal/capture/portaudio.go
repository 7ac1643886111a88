package capture

import (
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

// Source delivers fixed-size mono audio frames through a push callback.
// Implementations invoke the callback from the audio subsystem's real-time
// thread; the callback must return quickly and must never block.
type Source interface {
	Start() error
	Stop() error
}

// Config contains the capture stream parameters
type Config struct {
	SampleRate   int // Hz
	FrameSamples int // samples per capture period
}

// PortAudioSource captures mono float32 frames from the default input device
// via PortAudio's callback API.
type PortAudioSource struct {
	config     Config
	onFrame    func(frame []float32)
	onOverflow func()
	logger     *slog.Logger
	stream     *portaudio.Stream
}

// NewPortAudioSource initializes PortAudio and opens the default input device.
// onFrame receives a copy of each delivered frame; PortAudio reuses its own
// buffer between callbacks. onOverflow is invoked for capture periods the
// device reported as overflowed; those periods are not delivered.
func NewPortAudioSource(config Config, onFrame func(frame []float32), onOverflow func(),
	logger *slog.Logger) (*PortAudioSource, error) {

	if config.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", config.SampleRate)
	}

	if config.FrameSamples <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %d", config.FrameSamples)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	s := &PortAudioSource{
		config:     config,
		onFrame:    onFrame,
		onOverflow: onOverflow,
		logger:     logger,
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(config.SampleRate),
		config.FrameSamples, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	s.stream = stream
	return s, nil
}

// callback runs on the audio thread. Its only work is a status check and a
// frame copy handed to onFrame; inference and buffering happen elsewhere.
func (s *PortAudioSource) callback(in []float32, _ portaudio.StreamCallbackTimeInfo,
	flags portaudio.StreamCallbackFlags) {

	if flags&portaudio.InputOverflow != 0 {
		if s.onOverflow != nil {
			s.onOverflow()
		}
		return
	}

	frame := make([]float32, len(in))
	copy(frame, in)
	s.onFrame(frame)
}

// Start begins frame delivery
func (s *PortAudioSource) Start() error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("failed to start capture stream: %w", err)
	}

	s.logger.Info("recording started",
		slog.Int("sample_rate", s.config.SampleRate),
		slog.Int("frame_samples", s.config.FrameSamples),
	)
	return nil
}

// Stop halts frame delivery and releases the device
func (s *PortAudioSource) Stop() error {
	defer portaudio.Terminate()

	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		return fmt.Errorf("failed to stop capture stream: %w", err)
	}

	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("failed to close capture stream: %w", err)
	}

	s.logger.Info("recording stopped")
	return nil
}
