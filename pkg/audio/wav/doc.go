// ABOUTME: WAV container package
// ABOUTME: Reads and writes the canonical 44-byte-header PCM layout
// Package wav reads and writes uncompressed PCM audio in the canonical
// RIFF/WAVE layout: a fixed 44-byte little-endian header followed by the
// raw sample bytes.
//
// Only the single-"fmt "-then-"data" layout with audio format 1 is
// accepted. Extra chunks, extensible formats and compressed encodings are
// rejected as malformed.
//
// Example:
//
//	d, err := wav.ReadFile("ding.wav")
//	err = wav.WriteFile("copy.wav", d)
package wav
