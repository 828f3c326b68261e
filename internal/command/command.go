// ABOUTME: Session command grammar
// ABOUTME: Splits one input line into a keyword and its typed arguments
package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidArgument reports a malformed command argument.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind identifies a command.
type Kind int

const (
	Shell Kind = iota // anything unrecognized
	Play
	Pause
	Resume
	Stop
	State
	Repeat
	Note
	List
	Save
)

var keywords = map[string]Kind{
	"play":   Play,
	"pause":  Pause,
	"resume": Resume,
	"stop":   Stop,
	"state":  State,
	"repeat": Repeat,
	"note":   Note,
	"list":   List,
	"save":   Save,
}

func (k Kind) String() string {
	for word, kind := range keywords {
		if kind == k {
			return word
		}
	}
	return "shell"
}

// Command is one parsed input line.
type Command struct {
	Kind Kind
	// Name is the sound name (for play it is also the file path).
	Name string
	// Looping is the trailing flag of repeat; HasLooping reports whether one was given.
	Looping    bool
	HasLooping bool
	// Frequency and Duration are the note arguments.
	Frequency float64
	Duration  float64
	// Path is the save destination.
	Path string
	// Line is the untouched input, used for shell pass-through.
	Line string
}

// Parse splits line into a keyword and remainder. Lines whose first word
// is not a keyword become Shell commands.
func Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	word, rest := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		word, rest = trimmed[:i], strings.TrimSpace(trimmed[i:])
	}

	kind, ok := keywords[word]
	if !ok {
		return Command{Kind: Shell, Line: line}, nil
	}
	cmd := Command{Kind: kind, Line: line}

	switch kind {
	case List:
		return cmd, nil
	case Play, Pause, Resume, Stop, State:
		if rest == "" {
			return Command{}, fmt.Errorf("%w: %s needs a name", ErrInvalidArgument, word)
		}
		cmd.Name = rest
	case Repeat:
		return parseRepeat(cmd, rest)
	case Note:
		return parseNote(cmd, rest)
	case Save:
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("%w: save needs a name and a path", ErrInvalidArgument)
		}
		cmd.Path = fields[len(fields)-1]
		cmd.Name = strings.TrimSpace(strings.TrimSuffix(rest, cmd.Path))
	}
	return cmd, nil
}

func parseRepeat(cmd Command, rest string) (Command, error) {
	name, flag := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, flag = rest[:i], rest[i:]
	}
	if name == "" {
		return Command{}, fmt.Errorf("%w: repeat needs a name", ErrInvalidArgument)
	}
	cmd.Name = name
	if flag = strings.TrimSpace(flag); flag != "" {
		cmd.HasLooping = true
		cmd.Looping = strings.EqualFold(flag, "true")
	}
	return cmd, nil
}

func parseNote(cmd Command, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return Command{}, fmt.Errorf("%w: note needs a frequency and a duration", ErrInvalidArgument)
	}

	freq, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || !finitePositive(freq) {
		return Command{}, fmt.Errorf("%w: frequency %q", ErrInvalidArgument, fields[0])
	}
	dur, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || !finitePositive(dur) {
		return Command{}, fmt.Errorf("%w: duration %q", ErrInvalidArgument, fields[1])
	}

	cmd.Frequency = freq
	cmd.Duration = dur
	cmd.Name = NoteName(freq, dur)
	return cmd, nil
}

// NoteName derives the registry name of a tone: both numbers in shortest
// form joined by a space, so "note 440 1" is named "440 1".
func NoteName(freq, dur float64) string {
	return strconv.FormatFloat(freq, 'g', 6, 64) + " " + strconv.FormatFloat(dur, 'g', 6, 64)
}

func finitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
