package audio

import (
	"sync/atomic"
	"time"
)

// FrameQueue is a bounded FIFO hand-off buffer between the real-time capture
// callback (producer) and the segmentation loop (consumer). It is safe for
// exactly one producer and one consumer.
//
// Drop policy: Push never blocks. When the queue is full the incoming frame
// is dropped and counted; stalling the audio callback would corrupt capture,
// losing the newest frame under sustained overload is the accepted trade-off.
type FrameQueue struct {
	frames  chan []float32
	dropped atomic.Uint64
	pushed  atomic.Uint64
}

// NewFrameQueue creates a frame queue holding up to capacity frames
func NewFrameQueue(capacity int) *FrameQueue {
	return &FrameQueue{
		frames: make(chan []float32, capacity),
	}
}

// Push attempts to enqueue a frame without blocking. It returns false when
// the queue is full and the frame was dropped.
func (q *FrameQueue) Push(frame []float32) bool {
	select {
	case q.frames <- frame:
		q.pushed.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Pop dequeues the oldest frame, blocking up to timeout. The second return
// value is false when the timeout expired; that is not an error, the caller
// simply re-checks its cancellation state and polls again.
func (q *FrameQueue) Pop(timeout time.Duration) ([]float32, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case frame := <-q.frames:
		return frame, true
	case <-timer.C:
		return nil, false
	}
}

// TryPop dequeues the oldest frame without blocking. Used by the shutdown
// path to drain frames that arrived before capture stopped.
func (q *FrameQueue) TryPop() ([]float32, bool) {
	select {
	case frame := <-q.frames:
		return frame, true
	default:
		return nil, false
	}
}

// Len returns the current queue depth
func (q *FrameQueue) Len() int {
	return len(q.frames)
}

// Dropped returns the total number of frames dropped due to a full queue
func (q *FrameQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// Pushed returns the total number of frames successfully enqueued
func (q *FrameQueue) Pushed() uint64 {
	return q.pushed.Load()
}
