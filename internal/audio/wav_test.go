package audio

import (
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	pcm := EncodePCM16([][]float32{{0.1, -0.1, 0.2, -0.2}})

	wav, err := EncodeWAV(pcm, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	if len(wav) != 44+len(pcm) {
		t.Errorf("Expected %d bytes, got %d", 44+len(pcm), len(wav))
	}

	decoded, rate, err := DecodeWAV(wav)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}

	if rate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", rate)
	}

	if len(decoded) != len(pcm) {
		t.Fatalf("Expected %d PCM bytes, got %d", len(pcm), len(decoded))
	}

	for i := range pcm {
		if decoded[i] != pcm[i] {
			t.Fatalf("PCM byte %d differs: %#x vs %#x", i, pcm[i], decoded[i])
		}
	}
}

func TestEncodeWAVErrors(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("Expected error for empty payload")
	}

	if _, err := EncodeWAV([]byte{1, 2, 3}, 16000); err == nil {
		t.Error("Expected error for odd payload length")
	}

	if _, err := EncodeWAV([]byte{1, 2}, 0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestDecodeWAVErrors(t *testing.T) {
	if _, _, err := DecodeWAV([]byte("too short")); err == nil {
		t.Error("Expected error for truncated data")
	}

	junk := make([]byte, 64)
	if _, _, err := DecodeWAV(junk); err == nil {
		t.Error("Expected error for non-RIFF data")
	}
}
