// ABOUTME: Audio type definitions
// ABOUTME: Defines the decoded PCM value shared by the codec and the playback layer
package audio

import (
	"bytes"
	"fmt"
	"time"
)

// Decoded is raw PCM audio plus the format needed to interpret it.
// Data is owned by the value and must not be modified after construction.
type Decoded struct {
	Channels      uint
	BitsPerSample uint
	SampleRate    uint // Hz
	Data          []byte
}

// New builds a Decoded value and checks that data holds whole samples.
// Ownership of data passes to the returned value.
func New(channels, bitsPerSample, sampleRate uint, data []byte) (Decoded, error) {
	d := Decoded{
		Channels:      channels,
		BitsPerSample: bitsPerSample,
		SampleRate:    sampleRate,
		Data:          data,
	}
	if err := d.Validate(); err != nil {
		return Decoded{}, err
	}
	return d, nil
}

// Validate reports whether the byte length is consistent with the sample width.
func (d Decoded) Validate() error {
	sb := d.SampleBytes()
	if sb == 0 {
		if len(d.Data) != 0 {
			return fmt.Errorf("%w: %d bytes with zero-width samples", ErrPartialSample, len(d.Data))
		}
		return nil
	}
	if len(d.Data)%int(sb) != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrPartialSample, len(d.Data), sb)
	}
	return nil
}

// SampleBytes is the storage size of one sample of one channel.
func (d Decoded) SampleBytes() uint {
	return (d.BitsPerSample + 7) / 8
}

// BlockAlign is the size in bytes of one frame (one sample for every channel).
func (d Decoded) BlockAlign() uint {
	return d.Channels * (d.BitsPerSample / 8)
}

// ByteRate is the number of bytes consumed per second of playback.
func (d Decoded) ByteRate() uint {
	return d.SampleRate * d.BlockAlign()
}

// Frames returns the number of complete frames in Data.
func (d Decoded) Frames() int {
	ba := d.Channels * d.SampleBytes()
	if ba == 0 {
		return 0
	}
	return len(d.Data) / int(ba)
}

// Duration returns the playback length at the native sample rate.
func (d Decoded) Duration() time.Duration {
	if d.SampleRate == 0 {
		return 0
	}
	return time.Duration(d.Frames()) * time.Second / time.Duration(d.SampleRate)
}

// Equal compares format fields and sample bytes.
func (d Decoded) Equal(o Decoded) bool {
	return d.Channels == o.Channels &&
		d.BitsPerSample == o.BitsPerSample &&
		d.SampleRate == o.SampleRate &&
		bytes.Equal(d.Data, o.Data)
}

// String describes the format, e.g. "2ch 16-bit 44100Hz (1.5s)".
func (d Decoded) String() string {
	return fmt.Sprintf("%dch %d-bit %dHz (%s)", d.Channels, d.BitsPerSample, d.SampleRate, d.Duration())
}
