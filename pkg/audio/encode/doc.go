// ABOUTME: Audio encoder package for raw PCM sample data
// ABOUTME: Provides Encoder interface and the PCM implementation
// Package encode turns normalized float64 samples back into raw PCM bytes.
//
// Supports: 8-bit unsigned and 16-bit signed little-endian PCM. Samples
// outside [-1, 1] are clipped.
//
// Example:
//
//	encoder, err := encode.NewPCM(16)
//	data, err := encoder.Encode(samples)
package encode
