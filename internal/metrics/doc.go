// Package metrics defines the Prometheus instrumentation for the capture
// path, the frame queue, and the segmentation loop.
package metrics
