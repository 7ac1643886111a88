package vad

import (
	"fmt"

	"github.com/streamer45/silero-vad-go/speech"
)

// SileroEngine adapts the Silero VAD ONNX model to the Engine interface.
// The model exposes stream events for speech start and end; between a start
// and the matching end every frame counts as speech. The model carries
// recurrent state across calls, so the engine is single-goroutine only.
type SileroEngine struct {
	detector *speech.Detector
	open     bool
}

// NewSileroEngine loads the Silero VAD model from modelPath. Sample rate must
// be one the model supports (8000 or 16000 Hz) and frames must match the
// model's expected window (512 samples at 16 kHz).
func NewSileroEngine(modelPath string, sampleRate int, threshold float64) (*SileroEngine, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("model path cannot be empty")
	}

	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold must be strictly between 0 and 1, got %f", threshold)
	}

	detector, err := speech.NewDetector(speech.DetectorConfig{
		ModelPath:  modelPath,
		SampleRate: sampleRate,
		Threshold:  float32(threshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create silero detector: %w", err)
	}

	return &SileroEngine{detector: detector}, nil
}

// Evaluate runs the model on one frame
func (e *SileroEngine) Evaluate(frame []float32) (Decision, error) {
	event, err := e.detector.DetectStreamFrame(frame)
	if err != nil {
		// The detector occasionally reports an end event it cannot pair with
		// a start; its state is recoverable by a reset and the frame scores
		// as non-speech.
		if err.Error() == "unexpected speech end" {
			e.open = false
			if resetErr := e.detector.Reset(); resetErr != nil {
				return Decision{}, fmt.Errorf("failed to reset detector: %w", resetErr)
			}
			return Decision{}, nil
		}
		return Decision{}, fmt.Errorf("silero detection failed: %w", err)
	}

	var d Decision
	if event != nil {
		if event.IsStart {
			d.Onset = true
			e.open = true
		}
		if event.IsEnd {
			e.open = false
		}
	}

	d.Speech = e.open
	return d, nil
}

// Reset clears the model's recurrent state
func (e *SileroEngine) Reset() error {
	e.open = false
	if err := e.detector.Reset(); err != nil {
		return fmt.Errorf("failed to reset detector: %w", err)
	}
	return nil
}

// Close releases the underlying ONNX session
func (e *SileroEngine) Close() error {
	return e.detector.Destroy()
}
