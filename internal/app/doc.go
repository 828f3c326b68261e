// ABOUTME: Playback session package
// ABOUTME: Wires the command grammar, the sound registry and the resource handles together
// Package app runs an interactive playback session.
//
// A Session reads one command per line, keeps named sounds in a registry
// and evicts sounds that have stopped from a background sweeper. The
// session ends at an empty line or end of input.
package app
