package vad

import (
	"testing"
)

func loudFrame(n int) []float32 {
	frame := make([]float32, n)
	for i := range frame {
		frame[i] = 0.2 // RMS 0.2, well above the reference level
	}
	return frame
}

func TestNewEnergyEngineValidation(t *testing.T) {
	for _, threshold := range []float64{-0.1, 0, 1, 1.5} {
		if _, err := NewEnergyEngine(threshold); err == nil {
			t.Errorf("Expected error for threshold %f", threshold)
		}
	}

	if _, err := NewEnergyEngine(0.5); err != nil {
		t.Fatalf("Valid threshold rejected: %v", err)
	}
}

func TestEnergyEngineOnsetAndContinuation(t *testing.T) {
	engine, err := NewEnergyEngine(0.5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	d, err := engine.Evaluate(loudFrame(160))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !d.Speech || !d.Onset {
		t.Errorf("First loud frame should be speech with onset, got %+v", d)
	}

	d, err = engine.Evaluate(loudFrame(160))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !d.Speech || d.Onset {
		t.Errorf("Continued speech should not re-signal onset, got %+v", d)
	}
}

func TestEnergyEngineSilence(t *testing.T) {
	engine, _ := NewEnergyEngine(0.5)

	d, err := engine.Evaluate(make([]float32, 160))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if d.Speech || d.Onset {
		t.Errorf("Silent frame should not classify as speech, got %+v", d)
	}

	// Loud then silent: the smoothed score drops below threshold.
	engine.Evaluate(loudFrame(160))
	d, _ = engine.Evaluate(make([]float32, 160))
	if d.Speech {
		t.Errorf("Silent frame after speech should drop below threshold, got %+v", d)
	}
}

func TestEnergyEngineReset(t *testing.T) {
	engine, _ := NewEnergyEngine(0.5)

	engine.Evaluate(loudFrame(160))
	if err := engine.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	// After a reset the next loud frame is an onset again.
	d, _ := engine.Evaluate(loudFrame(160))
	if !d.Onset {
		t.Errorf("Expected onset after reset, got %+v", d)
	}
}

func TestEnergyEngineEmptyFrame(t *testing.T) {
	engine, _ := NewEnergyEngine(0.5)
	if _, err := engine.Evaluate(nil); err == nil {
		t.Error("Expected error for empty frame")
	}
}
