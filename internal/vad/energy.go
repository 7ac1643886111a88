package vad

import (
	"fmt"
	"math"
)

// referenceRMS is the root-mean-square level mapped to probability 1.0.
// Normal speech at typical microphone gain sits around 0.05-0.3 RMS in
// float32 samples, so 0.1 puts conversational speech comfortably above a 0.5
// threshold.
const referenceRMS = 0.1

// EnergyEngine is a model-free voice activity engine based on frame RMS
// energy with light exponential smoothing. It is far cruder than the Silero
// model but needs no ONNX runtime, which makes it useful on constrained
// hosts and as the deterministic engine for tests.
type EnergyEngine struct {
	threshold float64
	smoothing float64 // weight of the current frame in the smoothed score

	lastScore  float64
	evaluated  uint64
	speechSeen bool // previous frame classified as speech
}

// NewEnergyEngine creates an energy-based engine with the given threshold
func NewEnergyEngine(threshold float64) (*EnergyEngine, error) {
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold must be strictly between 0 and 1, got %f", threshold)
	}

	return &EnergyEngine{
		threshold: threshold,
		smoothing: 0.6,
	}, nil
}

// Evaluate scores one frame by smoothed RMS energy
func (e *EnergyEngine) Evaluate(frame []float32) (Decision, error) {
	if len(frame) == 0 {
		return Decision{}, fmt.Errorf("cannot evaluate empty frame")
	}

	var energy float64
	for _, sample := range frame {
		energy += float64(sample) * float64(sample)
	}
	rms := math.Sqrt(energy / float64(len(frame)))

	score := rms / referenceRMS
	if score > 1 {
		score = 1
	}

	if e.evaluated > 0 {
		score = e.smoothing*score + (1-e.smoothing)*e.lastScore
	}
	e.lastScore = score
	e.evaluated++

	speech := score >= e.threshold
	d := Decision{
		Onset:  speech && !e.speechSeen,
		Speech: speech,
	}
	e.speechSeen = speech

	return d, nil
}

// Reset clears the smoothing history
func (e *EnergyEngine) Reset() error {
	e.lastScore = 0
	e.evaluated = 0
	e.speechSeen = false
	return nil
}

// Close is a no-op; the engine holds no external resources
func (e *EnergyEngine) Close() error {
	return nil
}
