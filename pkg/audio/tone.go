// ABOUTME: Sine tone generator
// ABOUTME: Synthesizes mono sine waves as 8-bit or 16-bit PCM
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ToneSample returns sample i of a sine at freq Hz, shifted up so the wave
// spans the full unsigned range [0, peak].
func ToneSample(freq float64, i int, sampleRate uint, peak float64) float64 {
	v := peak / 2 * (math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) + 1)
	return math.Round(math.Min(math.Max(v, 0), peak))
}

// Tone synthesizes a mono tone of freq Hz lasting seconds. bitsPerSample
// must be 8 or 16. 8-bit samples are unsigned; 16-bit samples are signed
// little-endian, centered on zero as PCM WAV requires.
func Tone(freq, seconds float64, sampleRate, bitsPerSample uint) (Decoded, error) {
	if !finite(freq) || freq <= 0 {
		return Decoded{}, fmt.Errorf("%w: frequency %v", ErrInvalidTone, freq)
	}
	if !finite(seconds) || seconds <= 0 {
		return Decoded{}, fmt.Errorf("%w: duration %v", ErrInvalidTone, seconds)
	}
	if sampleRate == 0 {
		return Decoded{}, fmt.Errorf("%w: sample rate 0", ErrInvalidTone)
	}

	count := int(seconds * float64(sampleRate))
	if count == 0 {
		return Decoded{}, fmt.Errorf("%w: %vs at %dHz yields no samples", ErrInvalidTone, seconds, sampleRate)
	}

	var data []byte
	switch bitsPerSample {
	case 8:
		data = make([]byte, count)
		for i := range count {
			data[i] = uint8(ToneSample(freq, i, sampleRate, math.MaxUint8))
		}
	case 16:
		data = make([]byte, count*2)
		for i := range count {
			v := int16(ToneSample(freq, i, sampleRate, math.MaxUint16) - 32768)
			binary.LittleEndian.PutUint16(data[i*2:], uint16(v))
		}
	default:
		return Decoded{}, fmt.Errorf("%w: %d bits per sample (supported: 8, 16)", ErrInvalidTone, bitsPerSample)
	}

	return Decoded{
		Channels:      1,
		BitsPerSample: bitsPerSample,
		SampleRate:    sampleRate,
		Data:          data,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
