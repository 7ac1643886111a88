package vad

// Decision is the per-frame output of a voice activity engine.
//
// Onset is the engine's explicit signal that a new speech region began on
// this frame. Speech is the authoritative per-frame classification used for
// utterance continuation; the segmenter never infers continuation from the
// absence of an onset marker.
type Decision struct {
	Onset  bool
	Speech bool
}

// Engine scores capture frames for voice activity. Engines carry hidden state
// across calls (recurrent model state or smoothing history) and are therefore
// only safe for use from a single goroutine; the processing loop owns the
// engine exclusively.
type Engine interface {
	// Evaluate scores one frame. An error is fatal for the run: engine state
	// cannot be safely resumed mid-utterance.
	Evaluate(frame []float32) (Decision, error)

	// Reset clears accumulated state, returning the engine to its initial
	// condition.
	Reset() error

	// Close releases engine resources. The engine must not be used afterwards.
	Close() error
}
