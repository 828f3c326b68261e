// ABOUTME: TUI initialization and the console bridge to the session
// ABOUTME: Typed lines feed the session; session output is shown in the view
package ui

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/soundshell/internal/registry"
)

// Console is the session's input and output when the TUI is running. It
// satisfies console.LineReader and io.Writer.
type Console struct {
	lines chan string
	done  chan struct{}
	once  sync.Once

	mu      sync.Mutex
	partial []byte
	send    func(tea.Msg)
}

// NewConsole creates a console that is not yet attached to a program.
func NewConsole() *Console {
	return &Console{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
}

// ReadLine waits for the user to submit a line. It returns io.EOF once the
// TUI has been closed.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-c.lines:
		return line, nil
	case <-c.done:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// submit hands a line to ReadLine, giving up if the console closes.
func (c *Console) submit(line string) {
	select {
	case c.lines <- line:
	case <-c.done:
	}
}

// Close ends input. Safe to call more than once.
func (c *Console) Close() {
	c.once.Do(func() { close(c.done) })
}

// Write forwards complete lines to the view as OutputMsg.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.partial = append(c.partial, p...)
	for {
		i := bytes.IndexByte(c.partial, '\n')
		if i < 0 {
			break
		}
		line := string(c.partial[:i])
		c.partial = c.partial[i+1:]
		if c.send != nil {
			c.send(OutputMsg(line))
		}
	}
	return len(p), nil
}

func (c *Console) attach(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

// Run creates the TUI program around c. The caller starts it with
// prog.Run and stops it with prog.Quit.
func Run(c *Console, snapshot func() []registry.Status, refresh time.Duration) *tea.Program {
	p := tea.NewProgram(NewModel(c, snapshot, refresh), tea.WithAltScreen())
	c.attach(p.Send)
	return p
}
