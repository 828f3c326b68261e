// ABOUTME: Tagged validity for backend object handles
// ABOUTME: Serializes use against release so a released id never reaches the backend
package sound

import (
	"sync"

	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

type handleState int

const (
	uninitialized handleState = iota
	valid
	released
)

func (s handleState) String() string {
	switch s {
	case valid:
		return "valid"
	case released:
		return "released"
	}
	return "uninitialized"
}

// handle owns one backend id. Uses hold the read lock for the duration of
// the backend call so release cannot interleave with them.
type handle struct {
	mu    sync.RWMutex
	state handleState
	id    output.ID
}

func (h *handle) set(id output.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = valid
	h.id = id
}

func (h *handle) use(fn func(id output.ID) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != valid {
		return ErrInvalidState
	}
	return fn(h.id)
}

func (h *handle) isValid() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state == valid
}

// release runs fn once for a valid handle and marks it released whatever
// fn returns. Releasing an invalid handle is a no-op.
func (h *handle) release(fn func(id output.ID) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != valid {
		return nil
	}
	err := fn(h.id)
	h.state = released
	h.id = 0
	return err
}
