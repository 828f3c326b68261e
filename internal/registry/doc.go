// Package registry keeps the named sounds of a playback session.
package registry
