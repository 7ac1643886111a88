package protocol

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Event lines understood by downstream consumers. One event per line, UTF-8,
// flushed immediately by the emitter.
const (
	SpeechStartLine = "SPEECH_START"
	SpeechEndLine   = "SPEECH_END"
	AudioPrefix     = "AUDIO:"
)

// EventKind identifies the type of a protocol event
type EventKind int

const (
	EventSpeechStart EventKind = iota
	EventSpeechEnd
	EventAudio
)

// Event represents a single parsed protocol line
type Event struct {
	Kind EventKind
	// PCM holds the decoded little-endian 16-bit PCM payload for EventAudio
	// events; nil otherwise.
	PCM []byte
}

// FormatAudioLine encodes a raw PCM payload into an AUDIO event line
func FormatAudioLine(pcm []byte) string {
	return AudioPrefix + base64.StdEncoding.EncodeToString(pcm)
}

// ParseLine parses a single protocol line into an Event. It is the inverse of
// the emitter's output and is primarily useful for consumers and tests.
func ParseLine(line string) (Event, error) {
	switch {
	case line == SpeechStartLine:
		return Event{Kind: EventSpeechStart}, nil
	case line == SpeechEndLine:
		return Event{Kind: EventSpeechEnd}, nil
	case strings.HasPrefix(line, AudioPrefix):
		pcm, err := base64.StdEncoding.DecodeString(line[len(AudioPrefix):])
		if err != nil {
			return Event{}, fmt.Errorf("invalid audio payload: %w", err)
		}
		if len(pcm)%2 != 0 {
			return Event{}, fmt.Errorf("audio payload length must be even (got %d bytes)", len(pcm))
		}
		return Event{Kind: EventAudio, PCM: pcm}, nil
	default:
		return Event{}, fmt.Errorf("unknown protocol line: %q", line)
	}
}
