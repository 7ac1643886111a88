// Package capture provides the audio frame source. The PortAudio
// implementation delivers fixed-size mono float32 frames from the default
// input device through a real-time callback that only copies and forwards.
package capture
