package segment

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mull2536/voice-agent/internal/audio"
	"github.com/mull2536/voice-agent/internal/metrics"
)

// Pipeline runs the single-goroutine segmentation loop: pop a frame from the
// hand-off queue, score it, advance the segmenter, emit events. All
// classifier and segmenter state is confined to this loop, which is what
// makes the stateful VAD engine safe to use without locks.
type Pipeline struct {
	queue      *audio.FrameQueue
	segmenter  *Segmenter
	logger     *slog.Logger
	metrics    *metrics.Metrics
	popTimeout time.Duration

	framesProcessed atomic.Uint64
	lastDiscarded   uint64
}

// NewPipeline creates a segmentation pipeline. metrics may be nil, in which
// case no instrumentation is recorded.
func NewPipeline(queue *audio.FrameQueue, segmenter *Segmenter, popTimeout time.Duration,
	logger *slog.Logger, m *metrics.Metrics) *Pipeline {

	return &Pipeline{
		queue:      queue,
		segmenter:  segmenter,
		logger:     logger,
		metrics:    m,
		popTimeout: popTimeout,
	}
}

// Run processes frames until ctx is cancelled or the VAD engine fails. On any
// exit an open utterance is force-closed first, so boundary events always
// pair up. A pop timeout is not an error; it only gives the loop a chance to
// observe cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("segmentation loop started",
		slog.Duration("pop_timeout", p.popTimeout),
	)

	defer func() {
		p.segmenter.ForceClose()
		if p.metrics != nil {
			if discarded := p.segmenter.GetStats().UtterancesDiscarded; discarded > p.lastDiscarded {
				p.metrics.UtterancesDiscarded.Add(float64(discarded - p.lastDiscarded))
				p.lastDiscarded = discarded
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			p.drain()
			p.logger.Info("segmentation loop stopped",
				slog.Uint64("frames_processed", p.framesProcessed.Load()),
				slog.Uint64("frames_dropped", p.queue.Dropped()),
			)
			return nil
		default:
		}

		frame, ok := p.queue.Pop(p.popTimeout)
		if !ok {
			continue
		}

		if err := p.step(frame); err != nil {
			p.logger.Error("segmentation loop aborting", slog.String("error", err.Error()))
			return err
		}
	}
}

// drain processes frames that were already queued when shutdown began.
// Capture has stopped by then, so the queue can only shrink.
func (p *Pipeline) drain() {
	for {
		frame, ok := p.queue.TryPop()
		if !ok {
			return
		}
		if err := p.step(frame); err != nil {
			p.logger.Error("dropping remaining queued frames", slog.String("error", err.Error()))
			return
		}
	}
}

func (p *Pipeline) step(frame []float32) error {
	start := time.Now()
	d, err := p.segmenter.ProcessFrame(frame)
	if err != nil {
		return err
	}

	p.framesProcessed.Add(1)
	if p.metrics != nil {
		p.metrics.FramesProcessed.Inc()
		p.metrics.VADEvaluations.Inc()
		p.metrics.VADEvaluationTime.Observe(time.Since(start).Seconds())
		p.metrics.QueueDepth.Set(float64(p.queue.Len()))
		if d.Speech {
			p.metrics.VADSpeechFrames.Inc()
		}

		// The duration filter decides discards inside the segmenter, past the
		// sink's view; sync the counter from the segmenter's own tally.
		if discarded := p.segmenter.GetStats().UtterancesDiscarded; discarded > p.lastDiscarded {
			p.metrics.UtterancesDiscarded.Add(float64(discarded - p.lastDiscarded))
			p.lastDiscarded = discarded
		}
	}

	return nil
}

// PipelineStats is a point-in-time snapshot of pipeline activity for the
// status endpoint. Safe to read from other goroutines; the queue and frame
// counters are atomic and the segmenter counters are at worst one frame
// stale.
type PipelineStats struct {
	FramesProcessed uint64 `json:"frames_processed"`
	FramesQueued    int    `json:"frames_queued"`
	FramesDropped   uint64 `json:"frames_dropped"`
}

// GetStats returns a snapshot of pipeline counters
func (p *Pipeline) GetStats() PipelineStats {
	return PipelineStats{
		FramesProcessed: p.framesProcessed.Load(),
		FramesQueued:    p.queue.Len(),
		FramesDropped:   p.queue.Dropped(),
	}
}
