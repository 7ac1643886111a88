package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the segmentation service
type Metrics struct {
	// Capture metrics
	FramesCaptured   prometheus.Counter
	FramesDropped    prometheus.Counter
	CaptureOverflows prometheus.Counter
	QueueDepth       prometheus.Gauge

	// Segmentation metrics
	FramesProcessed     prometheus.Counter
	UtterancesStarted   prometheus.Counter
	UtterancesEmitted   prometheus.Counter
	UtterancesDiscarded prometheus.Counter
	UtteranceDuration   prometheus.Histogram
	UtteranceBytes      prometheus.Histogram

	// VAD metrics
	VADEvaluations    prometheus.Counter
	VADSpeechFrames   prometheus.Counter
	VADEvaluationTime prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		FramesCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_frames_captured_total",
			Help: "Total number of audio frames delivered by the capture device",
		}),
		FramesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_frames_dropped_total",
			Help: "Total number of frames dropped because the queue was full",
		}),
		CaptureOverflows: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_capture_overflows_total",
			Help: "Total number of capture periods reported with input overflow",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "voice_agent_frame_queue_depth",
			Help: "Current number of frames waiting in the hand-off queue",
		}),

		FramesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_frames_processed_total",
			Help: "Total number of frames consumed by the segmentation loop",
		}),
		UtterancesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_utterances_started_total",
			Help: "Total number of SPEECH_START boundaries emitted",
		}),
		UtterancesEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_utterances_emitted_total",
			Help: "Total number of utterances that produced an AUDIO payload",
		}),
		UtterancesDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_utterances_discarded_total",
			Help: "Total number of utterances dropped by the minimum duration filter",
		}),
		UtteranceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_agent_utterance_duration_seconds",
			Help:    "Wall-clock duration of closed utterances",
			Buckets: prometheus.ExponentialBuckets(0.125, 2, 8), // 125ms to ~30s
		}),
		UtteranceBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_agent_utterance_payload_bytes",
			Help:    "Size of emitted PCM payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 10), // 1KB to ~1MB
		}),

		VADEvaluations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_vad_evaluations_total",
			Help: "Total number of frames scored by the VAD engine",
		}),
		VADSpeechFrames: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_agent_vad_speech_frames_total",
			Help: "Total number of frames classified as speech",
		}),
		VADEvaluationTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_agent_vad_evaluation_duration_seconds",
			Help:    "Time spent scoring a single frame",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 10), // 100us to ~100ms
		}),
	}
}
