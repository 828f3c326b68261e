// ABOUTME: Command dispatch for the playback session
// ABOUTME: One handler per keyword; failures are reported and never end the session
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/soundshell/internal/command"
	"github.com/Resonate-Protocol/soundshell/internal/registry"
	"github.com/Resonate-Protocol/soundshell/internal/shell"
	"github.com/Resonate-Protocol/soundshell/pkg/audio"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/wav"
)

// noteBits is the sample width of tones made by the note command.
const noteBits = 8

func (s *Session) execute(ctx context.Context, line string) {
	cmd, err := command.Parse(line)
	if err == nil {
		err = s.dispatch(ctx, cmd)
	}
	if err != nil {
		s.logger.Debug("command failed", "line", line, "error", err)
		_ = s.out.Println(err.Error())
	}
}

func (s *Session) dispatch(ctx context.Context, cmd command.Command) error {
	switch cmd.Kind {
	case command.Play:
		return s.play(cmd.Name)
	case command.Pause:
		return s.withSound(cmd.Name, func(snd *registry.Sound) error { return snd.Source.Pause() })
	case command.Resume:
		return s.withSound(cmd.Name, func(snd *registry.Sound) error { return snd.Source.Play() })
	case command.Stop:
		return s.withSound(cmd.Name, func(snd *registry.Sound) error { return snd.Source.Stop() })
	case command.State:
		return s.withSound(cmd.Name, func(snd *registry.Sound) error {
			st, err := snd.Source.State()
			if err != nil {
				return err
			}
			return s.out.Println(st.String())
		})
	case command.Repeat:
		return s.repeat(cmd)
	case command.Note:
		return s.note(cmd)
	case command.List:
		return s.list()
	case command.Save:
		return s.withSound(cmd.Name, func(snd *registry.Sound) error {
			return wav.WriteFile(cmd.Path, snd.Audio)
		})
	default:
		return s.passThrough(ctx, cmd.Line)
	}
}

// notFound is the report for an unregistered name.
func notFound(name string) error {
	return fmt.Errorf("%q is not found", name)
}

func (s *Session) withSound(name string, fn func(*registry.Sound) error) error {
	snd, ok := s.sounds.Find(name)
	if !ok {
		return notFound(name)
	}
	return fn(snd)
}

// start registers a new sound built from a and plays it. A sound that
// fails to start is unregistered and released.
func (s *Session) start(name string, a audio.Decoded, looping bool) error {
	if _, ok := s.sounds.Find(name); ok {
		return fmt.Errorf("%w: %q", registry.ErrDuplicateName, name)
	}

	snd, err := registry.NewSound(name, a, s.backend)
	if err != nil {
		return err
	}
	if looping {
		if err := snd.Source.SetLooping(true); err != nil {
			return errors.Join(err, snd.Close())
		}
	}
	if err := s.sounds.Insert(snd); err != nil {
		return errors.Join(err, snd.Close())
	}
	if err := snd.Source.Play(); err != nil {
		s.sounds.Remove(snd)
		return errors.Join(err, snd.Close())
	}
	s.logger.Debug("sound started", "name", name, "id", snd.ID, "format", a.String(), "looping", looping)
	return nil
}

func (s *Session) play(path string) error {
	a, err := s.loader.Load(path)
	if err != nil {
		return err
	}
	return s.start(path, a, false)
}

// repeat starts a looping sound, or sets the looping flag of a registered
// one without touching its playback.
func (s *Session) repeat(cmd command.Command) error {
	if snd, ok := s.sounds.Find(cmd.Name); ok {
		return snd.Source.SetLooping(cmd.Looping)
	}
	a, err := s.loader.Load(cmd.Name)
	if err != nil {
		return err
	}
	return s.start(cmd.Name, a, true)
}

func (s *Session) note(cmd command.Command) error {
	if limit := s.cfg.Note.MaxDuration.Seconds(); cmd.Duration > limit {
		return fmt.Errorf("%w: duration %gs exceeds %gs", command.ErrInvalidArgument, cmd.Duration, limit)
	}
	a, err := audio.Tone(cmd.Frequency, cmd.Duration, uint(s.cfg.Note.SampleRate), noteBits)
	if err != nil {
		return fmt.Errorf("%w: %w", command.ErrInvalidArgument, err)
	}
	return s.start(cmd.Name, a, false)
}

func (s *Session) list() error {
	statuses := s.sounds.Snapshot()
	if len(statuses) == 0 {
		return s.out.Println("(no sounds)")
	}
	for _, st := range statuses {
		switch {
		case st.Err != nil:
			_ = s.out.Printf("%s\t%v", st.Name, st.Err)
		case st.Looping:
			_ = s.out.Printf("%s\t%s\tlooping", st.Name, st.State)
		default:
			_ = s.out.Printf("%s\t%s", st.Name, st.State)
		}
	}
	return nil
}

func (s *Session) passThrough(ctx context.Context, line string) error {
	err := s.shell.Run(ctx, line)
	if errors.Is(err, shell.ErrDisabled) {
		return fmt.Errorf("unknown command: %s", line)
	}
	if err != nil {
		s.logger.Debug("shell command failed", "line", line, "error", err)
	}
	return nil
}
