// ABOUTME: Playback source resource and its state labels
// ABOUTME: Every state query goes to the backend; nothing is cached locally
package sound

import (
	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

// State is the playback state of a Source.
type State int

const (
	Initial State = iota
	Playing
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Initial:
		return "Initial"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	}
	return "Unknown"
}

// Source owns one backend voice.
type Source struct {
	backend output.Backend
	h       handle
}

// NewSource allocates a voice with pitch and gain 1, position and velocity
// at the origin, and looping off. A context must be current.
func NewSource(b output.Backend) (*Source, error) {
	id, err := b.GenSource()
	if err != nil {
		return nil, backendErr(err)
	}

	defaults := []func() error{
		func() error { return b.Sourcef(id, output.Pitch, 1) },
		func() error { return b.Sourcef(id, output.Gain, 1) },
		func() error { return b.Source3f(id, output.Position, 0, 0, 0) },
		func() error { return b.Source3f(id, output.Velocity, 0, 0, 0) },
		func() error { return b.Sourcei(id, output.Looping, 0) },
	}
	for _, apply := range defaults {
		if err := apply(); err != nil {
			_ = b.DeleteSource(id)
			return nil, backendErr(err)
		}
	}

	s := &Source{backend: b}
	s.h.set(id)
	return s, nil
}

// Bind attaches buf to the source. The source only keeps the buffer's id;
// the caller must keep buf alive until the source is closed.
func (s *Source) Bind(buf *Buffer) error {
	return s.h.use(func(sid output.ID) error {
		return buf.h.use(func(bid output.ID) error {
			return backendErr(s.backend.Sourcei(sid, output.Buffer, int32(bid)))
		})
	})
}

func (s *Source) Play() error {
	return s.h.use(func(id output.ID) error {
		return backendErr(s.backend.SourcePlay(id))
	})
}

func (s *Source) Pause() error {
	return s.h.use(func(id output.ID) error {
		return backendErr(s.backend.SourcePause(id))
	})
}

func (s *Source) Stop() error {
	return s.h.use(func(id output.ID) error {
		return backendErr(s.backend.SourceStop(id))
	})
}

// State queries the backend for the current playback state.
func (s *Source) State() (State, error) {
	var st State
	err := s.h.use(func(id output.ID) error {
		code, err := s.backend.GetSourcei(id, output.SourceState)
		if err != nil {
			return backendErr(err)
		}
		switch code {
		case output.StateInitial:
			st = Initial
		case output.StatePlaying:
			st = Playing
		case output.StatePaused:
			st = Paused
		case output.StateStopped:
			st = Stopped
		default:
			return unexpectedState(code)
		}
		return nil
	})
	return st, err
}

func (s *Source) SetLooping(looping bool) error {
	var v int32
	if looping {
		v = 1
	}
	return s.h.use(func(id output.ID) error {
		return backendErr(s.backend.Sourcei(id, output.Looping, v))
	})
}

func (s *Source) Looping() (bool, error) {
	var looping bool
	err := s.h.use(func(id output.ID) error {
		v, err := s.backend.GetSourcei(id, output.Looping)
		if err != nil {
			return backendErr(err)
		}
		looping = v != 0
		return nil
	})
	return looping, err
}

// Close releases the voice.
func (s *Source) Close() error {
	return s.h.release(func(id output.ID) error {
		return backendErr(s.backend.DeleteSource(id))
	})
}
