// Package vad provides per-frame voice activity classification. The primary
// engine wraps the Silero VAD ONNX model; an energy-based fallback engine is
// available for hosts without the ONNX runtime. Engines report an explicit
// speech onset marker and a per-frame speech classification; silence-based
// utterance closing is the segmenter's responsibility, not the engine's.
package vad
