// ABOUTME: Error values for audio resources
// ABOUTME: Sentinels for misuse plus BackendError for failed backend calls
package sound

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

var (
	ErrInvalidState            = errors.New("sound: resource is not valid")
	ErrInvalidArgument         = errors.New("sound: invalid argument")
	ErrDeviceUnavailable       = errors.New("sound: audio device unavailable")
	ErrUnsupportedSampleFormat = errors.New("sound: unsupported sample format")
)

// BackendError is a failure reported by the audio backend. Message is the
// backend's own text.
type BackendError struct {
	Code    int32
	Message string
}

func (e *BackendError) Error() string { return e.Message }

// backendErr converts a backend failure into a *BackendError.
func backendErr(err error) error {
	if err == nil {
		return nil
	}
	var oe *output.Error
	if errors.As(err, &oe) {
		return &BackendError{Code: oe.Code, Message: oe.Error()}
	}
	return &BackendError{Message: err.Error()}
}

func unexpectedState(code int32) error {
	return &BackendError{Code: code, Message: fmt.Sprintf("unexpected source state 0x%X", code)}
}
