// Package audio provides the frame hand-off queue between capture and
// processing, float32-to-PCM16 utterance encoding, and the WAV container
// used by the optional utterance dump.
package audio
