// ABOUTME: Audio backend interface definition
// ABOUTME: Device, context, buffer and source operations with AL-style codes
package output

import "fmt"

// ID names a backend object. Zero is never a valid object.
type ID uint32

// Format describes the channel layout and width of uploaded sample data.
type Format int

const (
	Mono8 Format = iota + 1
	Mono16
	Stereo8
	Stereo16
)

// Channels returns the channel count of the format, or 0 if unknown.
func (f Format) Channels() int {
	switch f {
	case Mono8, Mono16:
		return 1
	case Stereo8, Stereo16:
		return 2
	}
	return 0
}

// BitsPerSample returns the sample width of the format, or 0 if unknown.
func (f Format) BitsPerSample() int {
	switch f {
	case Mono8, Stereo8:
		return 8
	case Mono16, Stereo16:
		return 16
	}
	return 0
}

// FrameSize is the size in bytes of one sample for every channel.
func (f Format) FrameSize() int {
	return f.Channels() * f.BitsPerSample() / 8
}

func (f Format) String() string {
	switch f {
	case Mono8:
		return "mono8"
	case Mono16:
		return "mono16"
	case Stereo8:
		return "stereo8"
	case Stereo16:
		return "stereo16"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Source state codes reported through GetSourcei(id, SourceState).
const (
	StateInitial int32 = 0x1011
	StatePlaying int32 = 0x1012
	StatePaused  int32 = 0x1013
	StateStopped int32 = 0x1014
)

// Param selects a source property.
type Param int

const (
	Pitch Param = iota + 1
	Gain
	Position
	Velocity
	Looping
	Buffer
	SourceState
)

// Backend is the device-level audio API the resource layer is built on.
// Every call can fail; failures are reported as *Error.
type Backend interface {
	OpenDevice(name string) (ID, error)
	CloseDevice(device ID) error

	CreateContext(device ID) (ID, error)
	// MakeContextCurrent selects the context used by buffer and source
	// calls. Passing zero clears the current context.
	MakeContextCurrent(context ID) error
	DestroyContext(context ID) error

	GenBuffer() (ID, error)
	BufferData(buffer ID, format Format, data []byte, sampleRate int) error
	DeleteBuffer(buffer ID) error

	GenSource() (ID, error)
	DeleteSource(source ID) error
	Sourcef(source ID, param Param, value float32) error
	Source3f(source ID, param Param, x, y, z float32) error
	Sourcei(source ID, param Param, value int32) error
	GetSourcef(source ID, param Param) (float32, error)
	GetSourcei(source ID, param Param) (int32, error)
	SourcePlay(source ID) error
	SourcePause(source ID) error
	SourceStop(source ID) error
}
