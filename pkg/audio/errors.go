// ABOUTME: Sentinel errors for audio values
// ABOUTME: Shared by construction and synthesis helpers
package audio

import "errors"

var (
	ErrPartialSample = errors.New("audio: data length is not a whole number of samples")
	ErrInvalidTone   = errors.New("audio: invalid tone parameters")
)
