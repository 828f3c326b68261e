// ABOUTME: Bubbletea model for the session TUI
// ABOUTME: Prompt line, scrolling output and a live list of registered sounds
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Resonate-Protocol/soundshell/internal/registry"
	"github.com/Resonate-Protocol/soundshell/internal/version"
	"github.com/Resonate-Protocol/soundshell/pkg/sound"
)

const maxOutputLines = 200

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#54A0FF"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	promptStyle = lipgloss.NewStyle().Bold(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	stateStyles = map[sound.State]lipgloss.Style{
		sound.Initial: lipgloss.NewStyle().Foreground(lipgloss.Color("#54A0FF")),
		sound.Playing: lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F")),
		sound.Paused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FECA57")),
		sound.Stopped: lipgloss.NewStyle().Foreground(lipgloss.Color("#BBBBBB")),
	}
)

// OutputMsg is one line of session output.
type OutputMsg string

type tickMsg time.Time

// Model represents the TUI state
type Model struct {
	console  *Console
	snapshot func() []registry.Status
	refresh  time.Duration

	input  []rune
	output []string
	sounds []registry.Status

	// Dimensions
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(c *Console, snapshot func() []registry.Status, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = 500 * time.Millisecond
	}
	return Model{
		console:  c,
		snapshot: snapshot,
		refresh:  refresh,
	}
}

// Init starts the sound list refresh loop
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case OutputMsg:
		m.appendOutput(string(msg))
	case tickMsg:
		if m.snapshot != nil {
			m.sounds = m.snapshot()
		}
		return m, m.tick()
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if m.console != nil {
			m.console.Close()
		}
		return m, tea.Quit
	case tea.KeyEnter:
		line := string(m.input)
		m.input = nil
		m.appendOutput("> " + line)
		if m.console == nil {
			return m, nil
		}
		c := m.console
		if strings.TrimSpace(line) == "" {
			// An empty line ends the session.
			return m, tea.Sequence(func() tea.Msg { c.submit(line); return nil }, tea.Quit)
		}
		return m, func() tea.Msg { c.submit(line); return nil }
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *Model) appendOutput(line string) {
	m.output = append(m.output, line)
	if n := len(m.output) - maxOutputLines; n > 0 {
		m.output = append(m.output[:0], m.output[n:]...)
	}
}

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", version.Product, version.Version)))
	b.WriteString(dimStyle.Render("  enter: run  esc: quit"))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.renderSounds()))
	b.WriteString("\n")

	// Keep the prompt on screen: header (1) + panel + prompt (1).
	visible := len(m.output)
	if m.height > 0 {
		visible = max(m.height-len(m.sounds)-5, 1)
	}
	start := max(len(m.output)-visible, 0)
	for _, line := range m.output[start:] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(promptStyle.Render("> "))
	b.WriteString(string(m.input))
	return b.String()
}

func (m Model) renderSounds() string {
	if len(m.sounds) == 0 {
		return dimStyle.Render("(no sounds)")
	}

	width := 0
	for _, s := range m.sounds {
		width = max(width, len(s.Name))
	}

	lines := make([]string, 0, len(m.sounds))
	for _, s := range m.sounds {
		label := s.State.String()
		style, ok := stateStyles[s.State]
		if s.Err != nil {
			label, ok = "error", false
		}
		if ok {
			label = style.Render(label)
		}
		line := fmt.Sprintf("%-*s  %s", width, truncate(s.Name, 48), label)
		if s.Looping {
			line += dimStyle.Render("  (looping)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
