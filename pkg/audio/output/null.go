// ABOUTME: Silent backend driven by a clock instead of a sound card
// ABOUTME: Used for tests and headless sessions; supports fault injection
package output

import (
	"log/slog"
	"time"
)

// Null is a Backend that renders nothing. Voices advance on a clock, so a
// non-looping source reaches Stopped once its buffer's duration has elapsed.
type Null struct {
	*engine
}

// NullOption configures a Null backend.
type NullOption func(*nullDriver)

// WithClock replaces time.Now as the source of playback time.
func WithClock(now func() time.Time) NullOption {
	return func(d *nullDriver) { d.now = now }
}

// NewNull creates a silent backend.
func NewNull(logger *slog.Logger, opts ...NullOption) *Null {
	d := &nullDriver{now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return &Null{engine: newEngine(d, logger)}
}

type nullDriver struct {
	now func() time.Time
}

func (d *nullDriver) open(string) error { return nil }
func (d *nullDriver) close() error      { return nil }

func (d *nullDriver) prepare(format Format, data []byte, sampleRate int) (any, error) {
	frames := len(data) / format.FrameSize()
	return time.Duration(frames) * time.Second / time.Duration(sampleRate), nil
}

func (d *nullDriver) newVoice(payload any) (voice, error) {
	return &clockVoice{now: d.now, length: payload.(time.Duration)}, nil
}

// clockVoice tracks a play position without producing samples.
type clockVoice struct {
	now       func() time.Time
	length    time.Duration
	looping   bool
	playing   bool
	startedAt time.Time
	offset    time.Duration // position at startedAt
}

func (v *clockVoice) position() time.Duration {
	if !v.playing {
		return v.offset
	}
	return v.offset + v.now().Sub(v.startedAt)
}

func (v *clockVoice) Play() {
	if v.playing {
		return
	}
	v.startedAt = v.now()
	v.playing = true
}

func (v *clockVoice) Pause() {
	if !v.playing {
		return
	}
	v.offset = v.position()
	v.playing = false
}

func (v *clockVoice) Rewind() {
	v.offset = 0
	v.startedAt = v.now()
}

func (v *clockVoice) SetLooping(looping bool) {
	if v.looping && !looping && v.length > 0 {
		// Continue from the current lap rather than from the total time played.
		v.offset = v.position() % v.length
		v.startedAt = v.now()
	}
	v.looping = looping
}

func (v *clockVoice) SetGain(float32) {}

func (v *clockVoice) Done() bool {
	return !v.looping && v.position() >= v.length
}

func (v *clockVoice) Close() error { return nil }
