package protocol

import (
	"testing"
)

func TestParseBoundaryLines(t *testing.T) {
	ev, err := ParseLine("SPEECH_START")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if ev.Kind != EventSpeechStart {
		t.Errorf("Expected speech start event, got %v", ev.Kind)
	}

	ev, err = ParseLine("SPEECH_END")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if ev.Kind != EventSpeechEnd {
		t.Errorf("Expected speech end event, got %v", ev.Kind)
	}
}

func TestAudioLineRoundTrip(t *testing.T) {
	pcm := []byte{0x12, 0x34, 0xff, 0x7f, 0x00, 0x80}

	line := FormatAudioLine(pcm)
	ev, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}

	if ev.Kind != EventAudio {
		t.Fatalf("Expected audio event, got %v", ev.Kind)
	}

	if len(ev.PCM) != len(pcm) {
		t.Fatalf("Expected %d payload bytes, got %d", len(pcm), len(ev.PCM))
	}

	for i := range pcm {
		if ev.PCM[i] != pcm[i] {
			t.Errorf("Payload byte %d: expected %#x, got %#x", i, pcm[i], ev.PCM[i])
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unknown line", "HELLO"},
		{"empty line", ""},
		{"invalid base64", "AUDIO:not!base64"},
		{"odd payload length", "AUDIO:QUJD"}, // "ABC", 3 bytes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLine(tt.line); err == nil {
				t.Errorf("Expected error for line %q", tt.line)
			}
		})
	}
}
