// ABOUTME: Rendering context resource bound to a device
// ABOUTME: Must be made current before buffers and sources are created
package sound

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

// Context is a rendering context on a Device. It references the device but
// does not own it; the device must be closed after the context.
type Context struct {
	backend output.Backend
	device  *Device
	h       handle
}

// NewContext creates a context on an open device.
func NewContext(dev *Device) (*Context, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}

	c := &Context{backend: dev.backend, device: dev}
	err := dev.h.use(func(devID output.ID) error {
		id, err := dev.backend.CreateContext(devID)
		if err != nil {
			return backendErr(err)
		}
		c.h.set(id)
		return nil
	})
	if errors.Is(err, ErrInvalidState) {
		return nil, fmt.Errorf("%w: device is not open", ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Device returns the device the context was created on.
func (c *Context) Device() *Device { return c.device }

// MakeCurrent selects this context for subsequent buffer and source calls.
func (c *Context) MakeCurrent() error {
	return c.h.use(func(id output.ID) error {
		return backendErr(c.backend.MakeContextCurrent(id))
	})
}

// Close destroys the context.
func (c *Context) Close() error {
	return c.h.release(func(id output.ID) error {
		return backendErr(c.backend.DestroyContext(id))
	})
}
