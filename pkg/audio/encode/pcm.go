// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float64 samples to 8-bit unsigned or 16-bit signed PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder
func NewPCM(bitDepth int) (Encoder, error) {
	if bitDepth != 8 && bitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 8, 16)", bitDepth)
	}

	return &PCMEncoder{
		bitDepth: bitDepth,
	}, nil
}

// Encode converts float64 samples to PCM bytes, clipping out-of-range values
func (e *PCMEncoder) Encode(samples []float64) ([]byte, error) {
	if e.bitDepth == 8 {
		output := make([]byte, len(samples))
		for i, sample := range samples {
			output[i] = uint8(clip(math.Round(sample*128)+128, 0, math.MaxUint8))
		}
		return output, nil
	}

	// 16-bit PCM: 2 bytes per sample
	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		sample16 := int16(clip(math.Round(sample*32768), math.MinInt16, math.MaxInt16))
		binary.LittleEndian.PutUint16(output[i*2:], uint16(sample16))
	}
	return output, nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

func clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, lo), hi)
}
