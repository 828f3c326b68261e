// ABOUTME: Audio resampling package
// ABOUTME: Converts interleaved float samples between sample rates
// Package resample provides audio sample rate conversion.
//
// Conversion is delegated to go-audio-resampling at high quality. Equal
// rates pass samples through untouched.
//
// Example:
//
//	r, err := resample.New(11025, 44100, 2)
//	if err != nil {
//		return err
//	}
//	out, err := r.Process(samples)
package resample
