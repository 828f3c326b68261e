// ABOUTME: Audio resource package
// ABOUTME: Device, Context, Buffer and Source handles over an output.Backend
// Package sound wraps backend objects in handles with explicit validity.
//
// Each handle is uninitialized, valid or released. Operations on a handle
// that is not valid fail with ErrInvalidState without reaching the backend,
// and Close is idempotent. Backend failures surface as *BackendError.
//
// Release order matters: close Sources before the Buffers bound to them,
// and Contexts before their Device.
//
//	dev, err := sound.OpenDevice(backend, "")
//	ctx, err := sound.NewContext(dev)
//	err = ctx.MakeCurrent()
//	buf, err := sound.NewBuffer(backend, decoded)
//	src, err := sound.NewSource(backend)
//	err = src.Bind(buf)
//	err = src.Play()
package sound
