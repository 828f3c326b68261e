// ABOUTME: Audio decoder package for raw PCM sample data
// ABOUTME: Provides Decoder interface and the PCM implementation
// Package decode turns raw PCM sample bytes into normalized float64
// samples for processing (channel mixing, resampling).
//
// Supports: 8-bit unsigned and 16-bit signed little-endian PCM.
//
// Example:
//
//	decoder, err := decode.NewPCM(16)
//	samples, err := decoder.Decode(d.Data)
package decode
