// ABOUTME: Audio output device resource
// ABOUTME: Opens a backend device and closes it exactly once
package sound

import (
	"fmt"

	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

// Device is one opened output device.
type Device struct {
	backend output.Backend
	name    string
	h       handle
}

// OpenDevice opens the named device, or the default device when name is empty.
func OpenDevice(b output.Backend, name string) (*Device, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrInvalidArgument)
	}
	id, err := b.OpenDevice(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, backendErr(err))
	}
	d := &Device{backend: b, name: name}
	d.h.set(id)
	return d, nil
}

// Name returns the requested device name ("" for the default device).
func (d *Device) Name() string { return d.name }

// IsOpen reports whether the device has been opened and not yet closed.
func (d *Device) IsOpen() bool { return d.h.isValid() }

// Close releases the device. Contexts created from it must be closed first.
func (d *Device) Close() error {
	return d.h.release(func(id output.ID) error {
		return backendErr(d.backend.CloseDevice(id))
	})
}
