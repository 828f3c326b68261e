// ABOUTME: Error values for the sound registry
// ABOUTME: Name collisions and missing names
package registry

import "errors"

var (
	ErrDuplicateName = errors.New("duplicate sound name")
	ErrNotFound      = errors.New("sound not found")
)
