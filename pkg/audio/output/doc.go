// ABOUTME: Audio backend package for device-level playback
// ABOUTME: Provides the Backend interface with Null and Oto implementations
// Package output provides the device-level audio API that playback
// resources are built on: devices, contexts, sample buffers and sources.
//
// Calls report failures as *Error carrying AL-style codes such as
// InvalidName and InvalidOperation. Two implementations share one object
// model: Oto plays through the system's default device via
// github.com/ebitengine/oto/v3, and Null keeps time on a clock without
// producing sound.
//
// Example:
//
//	b := output.NewOto(44100, slog.Default())
//	dev, err := b.OpenDevice("")
//	ctx, err := b.CreateContext(dev)
//	err = b.MakeContextCurrent(ctx)
package output
