// ABOUTME: Tests for the audio resource handles
// ABOUTME: Validity after release, format mapping and the source state machine
package sound

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resonate-Protocol/soundshell/pkg/audio"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

type fixture struct {
	backend *output.Null
	device  *Device
	context *Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := output.NewNull(nil)
	dev, err := OpenDevice(b, "")
	require.NoError(t, err)
	ctx, err := NewContext(dev)
	require.NoError(t, err)
	require.NoError(t, ctx.MakeCurrent())

	t.Cleanup(func() {
		assert.NoError(t, ctx.Close())
		assert.NoError(t, dev.Close())
	})
	return &fixture{backend: b, device: dev, context: ctx}
}

func tone(t *testing.T) audio.Decoded {
	t.Helper()
	d, err := audio.Tone(440, 1, 11025, 8)
	require.NoError(t, err)
	return d
}

func TestOpenDeviceFailure(t *testing.T) {
	b := output.NewNull(nil)
	b.Fail(output.OpOpenDevice, output.InvalidValue)

	_, err := OpenDevice(b, "nope")
	assert.True(t, errors.Is(err, ErrDeviceUnavailable))

	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, output.InvalidValue, be.Code)
	assert.Equal(t, "Invalid Value", be.Message)
}

func TestNewContextRequiresOpenDevice(t *testing.T) {
	_, err := NewContext(nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	b := output.NewNull(nil)
	dev, err := OpenDevice(b, "")
	require.NoError(t, err)
	require.NoError(t, dev.Close())
	assert.False(t, dev.IsOpen())

	_, err = NewContext(dev)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewContext(&Device{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestCreationRequiresCurrentContext(t *testing.T) {
	b := output.NewNull(nil)
	_, err := NewSource(b)

	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, output.InvalidOperation, be.Code)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		channels, bits uint
		want           output.Format
		wantErr        bool
	}{
		{1, 8, output.Mono8, false},
		{1, 16, output.Mono16, false},
		{2, 8, output.Stereo8, false},
		{2, 16, output.Stereo16, false},
		{1, 24, 0, true},
		{6, 16, 0, true},
		{0, 8, 0, true},
	}

	for _, tt := range tests {
		got, err := FormatOf(audio.Decoded{Channels: tt.channels, BitsPerSample: tt.bits})
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrUnsupportedSampleFormat), "%dch %d-bit", tt.channels, tt.bits)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewBufferUnsupportedFormatSkipsBackend(t *testing.T) {
	f := newFixture(t)
	_, err := NewBuffer(f.backend, audio.Decoded{Channels: 1, BitsPerSample: 24, SampleRate: 8000, Data: make([]byte, 3)})
	assert.True(t, errors.Is(err, ErrUnsupportedSampleFormat))
	assert.Equal(t, 0, f.backend.Calls(output.OpGenBuffer))
}

func TestNewBufferUploadFailureReleasesID(t *testing.T) {
	f := newFixture(t)
	before := f.backend.Live()
	f.backend.Fail(output.OpBufferData, output.OutOfMemory)

	buf, err := NewBuffer(f.backend, tone(t))
	assert.Nil(t, buf)
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, output.OutOfMemory, be.Code)

	assert.Equal(t, 1, f.backend.Calls(output.OpDeleteBuffer))
	assert.Equal(t, before, f.backend.Live())
}

func TestNewSourceSetsDefaults(t *testing.T) {
	f := newFixture(t)
	src, err := NewSource(f.backend)
	require.NoError(t, err)
	defer src.Close()

	looping, err := src.Looping()
	require.NoError(t, err)
	assert.False(t, looping)

	st, err := src.State()
	require.NoError(t, err)
	assert.Equal(t, Initial, st)

	assert.Equal(t, 2, f.backend.Calls(output.OpSourcef))
	assert.Equal(t, 2, f.backend.Calls(output.OpSource3f))
}

func TestNewSourceDefaultFailureReleasesID(t *testing.T) {
	f := newFixture(t)
	before := f.backend.Live()
	f.backend.Fail(output.OpSource3f, output.InvalidValue)

	_, err := NewSource(f.backend)
	require.Error(t, err)
	assert.Equal(t, before, f.backend.Live())
}

func TestSourceStateMachine(t *testing.T) {
	f := newFixture(t)
	buf, err := NewBuffer(f.backend, tone(t))
	require.NoError(t, err)
	src, err := NewSource(f.backend)
	require.NoError(t, err)
	require.NoError(t, src.Bind(buf))

	steps := []struct {
		op   func() error
		want State
	}{
		{src.Play, Playing},
		{src.Pause, Paused},
		{src.Play, Playing},
		{src.Stop, Stopped},
		{src.Play, Playing},
	}
	for i, step := range steps {
		require.NoError(t, step.op(), "step %d", i)
		st, err := src.State()
		require.NoError(t, err)
		assert.Equal(t, step.want, st, "step %d", i)
	}

	require.NoError(t, src.SetLooping(true))
	looping, err := src.Looping()
	require.NoError(t, err)
	assert.True(t, looping)

	require.NoError(t, src.Close())
	require.NoError(t, buf.Close())
}

func TestReleasedHandlesNeverReachBackend(t *testing.T) {
	f := newFixture(t)
	buf, err := NewBuffer(f.backend, tone(t))
	require.NoError(t, err)
	src, err := NewSource(f.backend)
	require.NoError(t, err)
	require.NoError(t, src.Bind(buf))

	require.NoError(t, src.Close())
	require.NoError(t, buf.Close())

	ops := []output.Op{output.OpSourcePlay, output.OpSourcePause, output.OpSourceStop,
		output.OpGetSourcei, output.OpSourcei, output.OpDeleteSource, output.OpDeleteBuffer}
	before := make(map[output.Op]int)
	for _, op := range ops {
		before[op] = f.backend.Calls(op)
	}

	assert.ErrorIs(t, src.Play(), ErrInvalidState)
	assert.ErrorIs(t, src.Pause(), ErrInvalidState)
	assert.ErrorIs(t, src.Stop(), ErrInvalidState)
	assert.ErrorIs(t, src.SetLooping(true), ErrInvalidState)
	_, err = src.State()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = src.Looping()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = buf.ID()
	assert.ErrorIs(t, err, ErrInvalidState)

	// Double release is a no-op.
	assert.NoError(t, src.Close())
	assert.NoError(t, buf.Close())

	for _, op := range ops {
		assert.Equal(t, before[op], f.backend.Calls(op), "%s", op)
	}
}

func TestBindReleasedBuffer(t *testing.T) {
	f := newFixture(t)
	buf, err := NewBuffer(f.backend, tone(t))
	require.NoError(t, err)
	require.NoError(t, buf.Close())

	src, err := NewSource(f.backend)
	require.NoError(t, err)
	defer src.Close()

	assert.ErrorIs(t, src.Bind(buf), ErrInvalidState)
}

func TestZeroValueHandlesAreInvalid(t *testing.T) {
	var src Source
	assert.ErrorIs(t, src.Play(), ErrInvalidState)
	assert.NoError(t, src.Close())

	var buf Buffer
	_, err := buf.ID()
	assert.ErrorIs(t, err, ErrInvalidState)
}

type strangeState struct {
	output.Backend
}

func (strangeState) GetSourcei(output.ID, output.Param) (int32, error) { return 0x9999, nil }

func TestUnexpectedStateIsBackendError(t *testing.T) {
	f := newFixture(t)
	src, err := NewSource(strangeState{Backend: f.backend})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.State()
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, int32(0x9999), be.Code)
}

func TestConcurrentUseAndRelease(t *testing.T) {
	f := newFixture(t)
	buf, err := NewBuffer(f.backend, tone(t))
	require.NoError(t, err)
	src, err := NewSource(f.backend)
	require.NoError(t, err)
	require.NoError(t, src.Bind(buf))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if _, err := src.State(); err != nil {
					assert.ErrorIs(t, err, ErrInvalidState)
					return
				}
			}
		}()
	}
	require.NoError(t, src.Close())
	wg.Wait()

	assert.Equal(t, 1, f.backend.Calls(output.OpDeleteSource))
	require.NoError(t, buf.Close())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Initial", Initial.String())
	assert.Equal(t, "Playing", Playing.String())
	assert.Equal(t, "Paused", Paused.String())
	assert.Equal(t, "Stopped", Stopped.String())
	assert.Equal(t, "Unknown", State(42).String())
}
