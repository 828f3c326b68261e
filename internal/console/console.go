// ABOUTME: Line-oriented input and output streams safe for concurrent use
// ABOUTME: Each stream has its own lock so single reads and writes are indivisible
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MaxLineLength bounds one input line, terminator excluded.
const MaxLineLength = 1 << 20

// ErrLineTooLong reports a line longer than MaxLineLength. The line is
// discarded and reading continues with the next one.
var ErrLineTooLong = errors.New("input line too long")

// LineReader yields one line of input at a time.
type LineReader interface {
	// ReadLine returns the next line without its terminator, io.EOF at end
	// of input, or ctx.Err() if ctx ends first.
	ReadLine(ctx context.Context) (string, error)
}

type readResult struct {
	line string
	err  error
}

// Reader reads lines from an io.Reader. A read abandoned by context
// cancellation is delivered to the next ReadLine call.
type Reader struct {
	mu      sync.Mutex
	br      *bufio.Reader
	pending chan readResult
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending == nil {
		ch := make(chan readResult, 1)
		r.pending = ch
		go func() { ch <- r.next() }()
	}

	select {
	case res := <-r.pending:
		r.pending = nil
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// next reads one line, skipping the rest of it once it exceeds MaxLineLength.
func (r *Reader) next() readResult {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.br.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			// Allow for a "\r\n" terminator.
			if len(line) > MaxLineLength+2 {
				tooLong, line = true, nil
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil, errors.Is(err, io.EOF) && (tooLong || len(line) > 0):
			text := strings.TrimSuffix(strings.TrimSuffix(string(line), "\n"), "\r")
			if tooLong || len(text) > MaxLineLength {
				return readResult{err: ErrLineTooLong}
			}
			return readResult{line: text}
		default:
			return readResult{err: err}
		}
	}
}

// Writer serializes writes to an io.Writer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes p in one locked call.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// Println writes the operands and a newline as one indivisible write.
func (w *Writer) Println(args ...any) error {
	_, err := w.Write([]byte(fmt.Sprintln(args...)))
	return err
}

// Printf formats a line and writes it, adding a newline if missing.
func (w *Writer) Printf(format string, args ...any) error {
	s := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := w.Write([]byte(s))
	return err
}
