package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeader is the 44-byte canonical RIFF/WAVE header for mono PCM data
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// EncodeWAV wraps raw little-endian 16-bit mono PCM bytes in a WAV container.
// Used by the optional utterance dump; the wire protocol itself carries bare
// PCM.
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio payload")
	}

	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("PCM payload length must be even, got %d", len(pcm))
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	dataSize := uint32(len(pcm))
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * 2,
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	buf.Write(pcm)
	return buf.Bytes(), nil
}

// DecodeWAV extracts the PCM payload and sample rate from a mono 16-bit WAV
// file produced by EncodeWAV
func DecodeWAV(data []byte) ([]byte, int, error) {
	if len(data) < 44 {
		return nil, 0, fmt.Errorf("WAV data too short: need at least 44 bytes, got %d", len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" || string(header.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	if header.AudioFormat != 1 || header.BitsPerSample != 16 || header.NumChannels != 1 {
		return nil, 0, fmt.Errorf("unsupported WAV format: format=%d bits=%d channels=%d",
			header.AudioFormat, header.BitsPerSample, header.NumChannels)
	}

	if int(header.Subchunk2Size) > len(data)-44 {
		return nil, 0, fmt.Errorf("truncated WAV data: header claims %d bytes, have %d",
			header.Subchunk2Size, len(data)-44)
	}

	return data[44 : 44+header.Subchunk2Size], int(header.SampleRate), nil
}
