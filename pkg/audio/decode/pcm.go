// ABOUTME: PCM audio decoder
// ABOUTME: Decodes 8-bit unsigned and 16-bit signed PCM to float64 samples
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrPartialSample is returned when data ends in the middle of a sample
var ErrPartialSample = errors.New("decode: trailing partial sample")

// PCMDecoder decodes PCM audio
type PCMDecoder struct {
	bitDepth int
}

// NewPCM creates a new PCM decoder
func NewPCM(bitDepth int) (Decoder, error) {
	if bitDepth != 8 && bitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 8, 16)", bitDepth)
	}

	return &PCMDecoder{
		bitDepth: bitDepth,
	}, nil
}

// Decode converts PCM bytes to float64 samples
func (d *PCMDecoder) Decode(data []byte) ([]float64, error) {
	if d.bitDepth == 8 {
		// 8-bit PCM is unsigned with silence at 128
		samples := make([]float64, len(data))
		for i, b := range data {
			samples[i] = (float64(b) - 128) / 128
		}
		return samples, nil
	}

	// 16-bit PCM: 2 bytes per sample, signed little-endian
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes of 16-bit audio", ErrPartialSample, len(data))
	}
	numSamples := len(data) / 2
	samples := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(sample16) / 32768
	}
	return samples, nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
