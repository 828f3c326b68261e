// ABOUTME: Sample buffer resource
// ABOUTME: Uploads decoded audio to the backend; never observable half-built
package sound

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/soundshell/pkg/audio"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

// FormatOf maps decoded audio to a backend format. Only mono or stereo at
// 8 or 16 bits per sample can be played.
func FormatOf(a audio.Decoded) (output.Format, error) {
	switch {
	case a.Channels == 1 && a.BitsPerSample == 8:
		return output.Mono8, nil
	case a.Channels == 1 && a.BitsPerSample == 16:
		return output.Mono16, nil
	case a.Channels == 2 && a.BitsPerSample == 8:
		return output.Stereo8, nil
	case a.Channels == 2 && a.BitsPerSample == 16:
		return output.Stereo16, nil
	}
	return 0, fmt.Errorf("%w: %d channels at %d bits", ErrUnsupportedSampleFormat, a.Channels, a.BitsPerSample)
}

// Buffer owns one backend buffer holding uploaded samples.
type Buffer struct {
	backend output.Backend
	format  output.Format
	h       handle
}

// NewBuffer allocates a backend buffer and uploads a into it. A context
// must be current.
func NewBuffer(b output.Backend, a audio.Decoded) (*Buffer, error) {
	format, err := FormatOf(a)
	if err != nil {
		return nil, err
	}

	id, err := b.GenBuffer()
	if err != nil {
		return nil, backendErr(err)
	}
	if err := b.BufferData(id, format, a.Data, int(a.SampleRate)); err != nil {
		if delErr := b.DeleteBuffer(id); delErr != nil {
			return nil, errors.Join(backendErr(err), backendErr(delErr))
		}
		return nil, backendErr(err)
	}

	buf := &Buffer{backend: b, format: format}
	buf.h.set(id)
	return buf, nil
}

// ID returns the backend id, or ErrInvalidState once released.
func (b *Buffer) ID() (output.ID, error) {
	var out output.ID
	err := b.h.use(func(id output.ID) error {
		out = id
		return nil
	})
	return out, err
}

// Format returns the backend format of the uploaded samples.
func (b *Buffer) Format() output.Format { return b.format }

// Close releases the buffer. Sources bound to it must be closed first.
func (b *Buffer) Close() error {
	return b.h.release(func(id output.ID) error {
		return backendErr(b.backend.DeleteBuffer(id))
	})
}
