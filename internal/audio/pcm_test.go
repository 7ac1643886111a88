package audio

import (
	"testing"
)

func TestEncodePCM16Conversion(t *testing.T) {
	tests := []struct {
		name     string
		sample   float32
		expected int16
	}{
		{"silence", 0.0, 0},
		{"full scale positive", 1.0, 32767},
		{"full scale negative", -1.0, -32767},
		{"half scale", 0.5, 16384}, // round(16383.5)
		{"rounds to nearest", 0.00005, 2},
		{"saturates above range", 1.5, 32767},
		{"saturates below range", -1.5, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pcm := EncodePCM16([][]float32{{tt.sample}})
			if len(pcm) != 2 {
				t.Fatalf("Expected 2 bytes, got %d", len(pcm))
			}

			got := DecodePCM16(pcm)[0]
			if got != tt.expected {
				t.Errorf("Sample %f: expected %d, got %d", tt.sample, tt.expected, got)
			}
		})
	}
}

func TestEncodePCM16PreservesFrameOrder(t *testing.T) {
	frames := [][]float32{
		{0.001, 0.002},
		{0.003},
		{0.004, 0.005, 0.006},
	}

	pcm := EncodePCM16(frames)

	totalSamples := 0
	for _, f := range frames {
		totalSamples += len(f)
	}
	if len(pcm) != totalSamples*2 {
		t.Fatalf("Expected %d bytes, got %d", totalSamples*2, len(pcm))
	}

	samples := DecodePCM16(pcm)
	for i := 1; i < len(samples); i++ {
		if samples[i] <= samples[i-1] {
			t.Errorf("Sample order broken at %d: %d then %d", i, samples[i-1], samples[i])
		}
	}
}

func TestEncodePCM16LittleEndian(t *testing.T) {
	// 0.5 encodes as 16384 = 0x4000, little-endian 0x00 0x40.
	pcm := EncodePCM16([][]float32{{0.5}})
	if pcm[0] != 0x00 || pcm[1] != 0x40 {
		t.Errorf("Expected little-endian bytes [0x00 0x40], got [%#x %#x]", pcm[0], pcm[1])
	}
}

func TestEncodePCM16Empty(t *testing.T) {
	if got := EncodePCM16(nil); len(got) != 0 {
		t.Errorf("Expected empty output for no frames, got %d bytes", len(got))
	}
}
