package segment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mull2536/voice-agent/internal/audio"
	"github.com/mull2536/voice-agent/internal/vad"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPipelineProcessesQueuedFramesInOrder(t *testing.T) {
	cfg := Config{MinSpeechDuration: 50 * time.Millisecond, SilenceHangoverFrames: 2}

	// All frames are speech; the open utterance is force-closed on shutdown.
	engine := &scriptEngine{decisions: script(8, 0)}
	sink := &recordSink{}
	seg, err := New(cfg, engine, sink)
	if err != nil {
		t.Fatalf("Failed to create segmenter: %v", err)
	}

	// Advance a fake clock per lookup so the force-closed utterance passes
	// the duration filter.
	calls := 0
	base := time.Unix(1000, 0)
	seg.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 100 * time.Millisecond)
	}

	queue := audio.NewFrameQueue(16)
	frames := make([][]float32, 8)
	for i := range frames {
		frames[i] = []float32{float32(i+1) / 100, float32(i+1) / 100}
		queue.Push(frames[i])
	}

	pipeline := NewPipeline(queue, seg, 10*time.Millisecond, testLogger(), nil)

	// A pre-cancelled context makes Run drain the queue and stop.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pipeline.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if starts, ends := countEvents(sink.events, "start"), countEvents(sink.events, "end"); starts != 1 || ends != 1 {
		t.Fatalf("Expected one force-closed utterance, got %d starts / %d ends", starts, ends)
	}

	if len(sink.payloads) != 1 {
		t.Fatalf("Expected one payload, events: %v", sink.events)
	}

	// Frames reached the encoder in push order.
	want := audio.EncodePCM16(frames)
	got := sink.payloads[0]
	if len(got) != len(want) {
		t.Fatalf("Expected %d payload bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Frame order broken at payload byte %d", i)
		}
	}

	if stats := pipeline.GetStats(); stats.FramesProcessed != 8 {
		t.Errorf("Expected 8 processed frames, got %d", stats.FramesProcessed)
	}
}

func TestPipelinePairsBoundariesOnShutdown(t *testing.T) {
	cfg := Config{MinSpeechDuration: time.Hour, SilenceHangoverFrames: 2}

	// Long minimum duration: the force-closed utterance emits boundaries but
	// no payload.
	engine := &scriptEngine{decisions: script(3, 0)}
	sink := &recordSink{}
	seg, err := New(cfg, engine, sink)
	if err != nil {
		t.Fatalf("Failed to create segmenter: %v", err)
	}

	queue := audio.NewFrameQueue(8)
	for i := 0; i < 3; i++ {
		queue.Push(make([]float32, 4))
	}

	pipeline := NewPipeline(queue, seg, 10*time.Millisecond, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pipeline.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sink.events) != 2 || sink.events[0] != "start" || sink.events[1] != "end" {
		t.Fatalf("Expected [start end], got %v", sink.events)
	}
}

func TestPipelineAbortsOnEngineError(t *testing.T) {
	cfg := Config{MinSpeechDuration: 50 * time.Millisecond, SilenceHangoverFrames: 2}

	engine := &scriptEngine{
		decisions: []vad.Decision{{}},
		errs:      []error{errors.New("onnx session trashed")},
	}
	sink := &recordSink{}
	seg, err := New(cfg, engine, sink)
	if err != nil {
		t.Fatalf("Failed to create segmenter: %v", err)
	}

	queue := audio.NewFrameQueue(8)
	queue.Push(make([]float32, 4))

	pipeline := NewPipeline(queue, seg, 10*time.Millisecond, testLogger(), nil)

	if err := pipeline.Run(context.Background()); err == nil {
		t.Fatal("Expected Run to return the engine error")
	}
}

func TestPipelinePopTimeoutIsNotAnError(t *testing.T) {
	cfg := Config{MinSpeechDuration: 50 * time.Millisecond, SilenceHangoverFrames: 2}

	engine := &scriptEngine{}
	sink := &recordSink{}
	seg, err := New(cfg, engine, sink)
	if err != nil {
		t.Fatalf("Failed to create segmenter: %v", err)
	}

	queue := audio.NewFrameQueue(8)
	pipeline := NewPipeline(queue, seg, time.Millisecond, testLogger(), nil)

	// Empty queue: the loop just polls until cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	if err := pipeline.Run(ctx); err != nil {
		t.Fatalf("Run failed on idle input: %v", err)
	}

	if len(sink.events) != 0 {
		t.Errorf("Expected no events without frames, got %v", sink.events)
	}
}
