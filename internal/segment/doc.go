// Package segment implements the speech segmentation state machine and the
// single-goroutine processing loop that drives it. Frames dequeued from the
// capture hand-off queue are scored by a voice activity engine and
// accumulated into utterances using silence-hangover debouncing and a
// minimum-duration payload filter.
package segment
