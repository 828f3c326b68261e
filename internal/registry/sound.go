// ABOUTME: Named sound aggregate
// ABOUTME: Owns a buffer and the source bound to it, released in that dependency order
package registry

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Resonate-Protocol/soundshell/pkg/audio"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
	"github.com/Resonate-Protocol/soundshell/pkg/sound"
)

// Sound is a user-named buffer plus the source that plays it.
type Sound struct {
	ID     uuid.UUID
	Name   string
	Audio  audio.Decoded
	Buffer *sound.Buffer
	Source *sound.Source
}

// NewSound uploads a and creates a source bound to it. On failure nothing
// is left allocated.
func NewSound(name string, a audio.Decoded, b output.Backend) (*Sound, error) {
	buf, err := sound.NewBuffer(b, a)
	if err != nil {
		return nil, err
	}

	src, err := sound.NewSource(b)
	if err != nil {
		return nil, errors.Join(err, buf.Close())
	}

	if err := src.Bind(buf); err != nil {
		return nil, errors.Join(err, src.Close(), buf.Close())
	}

	return &Sound{
		ID:     uuid.New(),
		Name:   name,
		Audio:  a,
		Buffer: buf,
		Source: src,
	}, nil
}

// Close releases the source before the buffer it references.
func (s *Sound) Close() error {
	srcErr := s.Source.Close()
	bufErr := s.Buffer.Close()
	if err := errors.Join(srcErr, bufErr); err != nil {
		return fmt.Errorf("release %q: %w", s.Name, err)
	}
	return nil
}
