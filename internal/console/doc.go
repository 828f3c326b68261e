// Package console provides the session's input and output streams.
package console
