// ABOUTME: Mutex-guarded collection of named sounds
// ABOUTME: Shared by the command loop and the background sweeper
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Resonate-Protocol/soundshell/pkg/sound"
)

// Status is a point-in-time view of one registered sound.
type Status struct {
	Name    string
	State   sound.State
	Looping bool
	Err     error
}

// Registry maps unique names to sounds. The lock only guards the slice;
// backend calls that release sounds happen after it is dropped.
type Registry struct {
	mu     sync.Mutex
	sounds []*Sound
	logger *slog.Logger
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Insert registers s under s.Name.
func (r *Registry) Insert(s *Sound) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(s.Name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
	}
	r.sounds = append(r.sounds, s)
	r.logger.Debug("sound registered", "name", s.Name, "id", s.ID)
	return nil
}

// Find returns the sound registered under name (exact match).
func (r *Registry) Find(name string) (*Sound, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexLocked(name); i >= 0 {
		return r.sounds[i], true
	}
	return nil, false
}

// Remove unregisters s if it is still present. The caller owns the
// released sound and must close it.
func (r *Registry) Remove(s *Sound) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, cur := range r.sounds {
		if cur == s {
			r.sounds = append(r.sounds[:i], r.sounds[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) indexLocked(name string) int {
	for i, s := range r.sounds {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// EvictStopped removes and closes every sound whose source reports
// Stopped, returning their names in registration order. States are
// queried with the lock released; a sound another caller removed in the
// meantime is left to that caller.
func (r *Registry) EvictStopped() []string {
	r.mu.Lock()
	sounds := append([]*Sound(nil), r.sounds...)
	r.mu.Unlock()

	var stopped []*Sound
	for _, s := range sounds {
		st, err := s.Source.State()
		if err != nil {
			r.logger.Warn("state query failed", "name", s.Name, "error", err)
			continue
		}
		if st == sound.Stopped {
			stopped = append(stopped, s)
		}
	}
	if len(stopped) == 0 {
		return nil
	}

	var evicted []*Sound
	for _, s := range stopped {
		if r.Remove(s) {
			evicted = append(evicted, s)
		}
	}

	names := make([]string, 0, len(evicted))
	for _, s := range evicted {
		if err := s.Close(); err != nil {
			r.logger.Warn("evicted sound release failed", "name", s.Name, "error", err)
		}
		r.logger.Debug("sound evicted", "name", s.Name, "id", s.ID)
		names = append(names, s.Name)
	}
	return names
}

// Snapshot reports the state of every registered sound.
func (r *Registry) Snapshot() []Status {
	r.mu.Lock()
	sounds := append([]*Sound(nil), r.sounds...)
	r.mu.Unlock()

	out := make([]Status, 0, len(sounds))
	for _, s := range sounds {
		st := Status{Name: s.Name}
		st.State, st.Err = s.Source.State()
		if st.Err == nil {
			st.Looping, st.Err = s.Source.Looping()
		}
		out = append(out, st)
	}
	return out
}

// Len returns the number of registered sounds.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sounds)
}

// Close removes and releases every sound.
func (r *Registry) Close() error {
	r.mu.Lock()
	sounds := r.sounds
	r.sounds = nil
	r.mu.Unlock()

	var errs []error
	for _, s := range sounds {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
