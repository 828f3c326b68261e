// ABOUTME: Sample rate converter for interleaved float64 audio
// ABOUTME: Runs one go-audio-resampling filter per channel and short-circuits equal rates
package resample

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resampler converts complete clips of interleaved samples from one rate
// to another.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	// one mono filter per channel; the library flushes only its first channel
	engines []resampling.Resampler
}

// New creates a resampler. Rates and channels must be positive.
func New(inputRate, outputRate, channels int) (*Resampler, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates: %d -> %d", inputRate, outputRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	r := &Resampler{inputRate: inputRate, outputRate: outputRate, channels: channels}
	if inputRate == outputRate {
		return r, nil
	}

	for range channels {
		engine, err := resampling.New(&resampling.Config{
			InputRate:  float64(inputRate),
			OutputRate: float64(outputRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler: %w", err)
		}
		r.engines = append(r.engines, engine)
	}
	return r, nil
}

// Ratio returns output frames per input frame.
func (r *Resampler) Ratio() float64 {
	return float64(r.outputRate) / float64(r.inputRate)
}

// OutputFrames returns the number of frames Process yields for n input frames.
func (r *Resampler) OutputFrames(n int) int {
	return int(math.Round(float64(n) * r.Ratio()))
}

// Process converts one complete clip of interleaved samples. Each channel
// is filtered separately and its filter tail flushed, so the result holds
// exactly OutputFrames input frames.
func (r *Resampler) Process(samples []float64) ([]float64, error) {
	if len(samples)%r.channels != 0 {
		return nil, fmt.Errorf("%d samples is not a whole number of %d-channel frames", len(samples), r.channels)
	}
	if r.engines == nil || len(samples) == 0 {
		return samples, nil
	}

	frames := len(samples) / r.channels
	want := r.OutputFrames(frames)
	out := make([]float64, want*r.channels)

	channel := make([]float64, frames)
	for ch, engine := range r.engines {
		for i := range frames {
			channel[i] = samples[i*r.channels+ch]
		}

		converted, err := r.convert(engine, channel)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}

		// Pad a short tail with silence; drop filter ringing past the end.
		for i := 0; i < want && i < len(converted); i++ {
			out[i*r.channels+ch] = converted[i]
		}
	}
	return out, nil
}

func (r *Resampler) convert(engine resampling.Resampler, channel []float64) ([]float64, error) {
	defer engine.Reset()

	body, err := engine.Process(channel)
	if err != nil {
		return nil, fmt.Errorf("resample %dHz -> %dHz: %w", r.inputRate, r.outputRate, err)
	}
	tail, err := engine.Flush()
	if err != nil {
		return nil, fmt.Errorf("flush %dHz -> %dHz: %w", r.inputRate, r.outputRate, err)
	}
	return append(body, tail...), nil
}
