package segment

import (
	"fmt"
	"time"

	"github.com/mull2536/voice-agent/internal/audio"
	"github.com/mull2536/voice-agent/internal/vad"
)

// Phase is the segmenter's current state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpeech
)

// String returns the phase name for logs and status reporting
func (p Phase) String() string {
	if p == PhaseSpeech {
		return "speech"
	}
	return "idle"
}

// Sink receives segmentation events in emission order. Calls happen on the
// single processing goroutine; implementations do not need to be
// thread-safe.
type Sink interface {
	// SpeechStart marks an utterance boundary opening. Exactly one
	// SpeechEnd follows before the next SpeechStart.
	SpeechStart()

	// SpeechEnd marks the utterance boundary closing.
	SpeechEnd()

	// Audio delivers the little-endian 16-bit PCM payload of an utterance
	// that passed the minimum duration filter. Called at most once between a
	// SpeechStart/SpeechEnd pair, after SpeechEnd.
	Audio(pcm []byte)
}

// Config contains the segmentation policy parameters
type Config struct {
	// MinSpeechDuration is the wall-clock duration an utterance must reach
	// for its payload to be emitted. Duration is measured in elapsed time,
	// not sample count, so the filter stays correct when the queue drops
	// frames under overload.
	MinSpeechDuration time.Duration

	// SilenceHangoverFrames is the number of consecutive non-speech frames
	// tolerated inside an open utterance. The utterance closes when the
	// silence run exceeds this count.
	SilenceHangoverFrames int
}

// Segmenter accumulates classified frames into utterances. It is driven by a
// single goroutine; all state below is owned by that goroutine and needs no
// locking.
type Segmenter struct {
	config Config
	engine vad.Engine
	sink   Sink

	phase       Phase
	speechStart time.Time
	frames      [][]float32
	silenceRun  int

	opened    uint64
	emitted   uint64
	discarded uint64

	now func() time.Time
}

// New creates a segmenter driving the given engine and delivering events to
// the given sink
func New(config Config, engine vad.Engine, sink Sink) (*Segmenter, error) {
	if config.MinSpeechDuration <= 0 {
		return nil, fmt.Errorf("minimum speech duration must be positive, got %v", config.MinSpeechDuration)
	}

	if config.SilenceHangoverFrames < 1 {
		return nil, fmt.Errorf("silence hangover must be at least 1 frame, got %d", config.SilenceHangoverFrames)
	}

	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	if sink == nil {
		return nil, fmt.Errorf("sink cannot be nil")
	}

	return &Segmenter{
		config: config,
		engine: engine,
		sink:   sink,
		phase:  PhaseIdle,
		now:    time.Now,
	}, nil
}

// ProcessFrame classifies one frame and advances the state machine. Frames
// must be fed in arrival order. The returned decision reflects the engine's
// classification of this frame. An error means the engine failed and the run
// cannot continue.
func (s *Segmenter) ProcessFrame(frame []float32) (vad.Decision, error) {
	d, err := s.engine.Evaluate(frame)
	if err != nil {
		return vad.Decision{}, fmt.Errorf("voice activity evaluation failed: %w", err)
	}

	// An onset while already open is ignored: only a close may reset the
	// accumulated buffer.
	if d.Onset && s.phase == PhaseIdle {
		s.phase = PhaseSpeech
		s.speechStart = s.now()
		s.frames = nil
		s.silenceRun = 0
		s.opened++
		s.sink.SpeechStart()
	}

	if d.Speech {
		s.frames = append(s.frames, frame)
		s.silenceRun = 0
	} else if s.phase == PhaseSpeech {
		// Trailing silence stays in the utterance; natural speech tapers off
		// rather than stopping at the last voiced frame.
		s.silenceRun++
		s.frames = append(s.frames, frame)

		if s.silenceRun > s.config.SilenceHangoverFrames {
			s.close(s.now())
		}
	}

	return d, nil
}

// ForceClose closes any open utterance through the normal closing path. The
// shutdown sequence calls it so that every SPEECH_START is paired with a
// SPEECH_END even when capture stops mid-utterance.
func (s *Segmenter) ForceClose() {
	if s.phase == PhaseSpeech {
		s.close(s.now())
	}
}

// close transitions SPEECH back to IDLE. The boundary event is unconditional;
// the payload is gated on the minimum duration filter.
func (s *Segmenter) close(now time.Time) {
	duration := now.Sub(s.speechStart)
	s.sink.SpeechEnd()

	if duration >= s.config.MinSpeechDuration && len(s.frames) > 0 {
		s.sink.Audio(audio.EncodePCM16(s.frames))
		s.emitted++
	} else {
		s.discarded++
	}

	s.phase = PhaseIdle
	s.frames = nil
	s.silenceRun = 0
	s.speechStart = time.Time{}
}

// Phase returns the current segmenter phase
func (s *Segmenter) Phase() Phase {
	return s.phase
}

// Stats is a snapshot of segmenter counters
type Stats struct {
	Phase               string `json:"phase"`
	UtterancesOpened    uint64 `json:"utterances_opened"`
	UtterancesEmitted   uint64 `json:"utterances_emitted"`
	UtterancesDiscarded uint64 `json:"utterances_discarded"`
	BufferedFrames      int    `json:"buffered_frames"`
}

// GetStats returns a snapshot of the segmenter counters. Only safe to call
// from the processing goroutine or after the run has stopped.
func (s *Segmenter) GetStats() Stats {
	return Stats{
		Phase:               s.phase.String(),
		UtterancesOpened:    s.opened,
		UtterancesEmitted:   s.emitted,
		UtterancesDiscarded: s.discarded,
		BufferedFrames:      len(s.frames),
	}
}
