package audio

import "math"

// EncodePCM16 concatenates the given frames in order and converts each
// floating-point sample in [-1.0, 1.0] to a signed 16-bit integer, serialized
// little-endian. Samples outside the representable range saturate instead of
// wrapping. The conversion is deterministic and allocation-exact.
func EncodePCM16(frames [][]float32) []byte {
	total := 0
	for _, frame := range frames {
		total += len(frame)
	}

	out := make([]byte, 0, total*2)
	for _, frame := range frames {
		for _, sample := range frame {
			v := sampleToInt16(sample)
			out = append(out, byte(v), byte(uint16(v)>>8))
		}
	}

	return out
}

// DecodePCM16 converts little-endian 16-bit PCM bytes back to samples.
// Trailing odd bytes are ignored.
func DecodePCM16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}

func sampleToInt16(sample float32) int16 {
	scaled := math.Round(float64(sample) * 32767)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}
