// Package render turns filtered candidates into log-call text and cycles the
// severity of existing log calls.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
)

// BaseLevels is the fixed severity cycle.
var BaseLevels = []string{"log", "info", "warn", "error"}

// Options is the part of the configuration the renderer reads.
type Options struct {
	AlwaysLogFilename       bool
	MaxIdentifierLength     int
	PrintTrailingSemicolons bool
}

// Input is everything needed to render one statement.
type Input struct {
	Label      string
	Candidates []model.Candidate
	Level      string
	Line       int // 1-based line the statement describes
	Filename   string
	Dialect    *lang.Language
	Options    Options
}

// Render builds the log statement for in.
func Render(in Input) model.LogStatement {
	l := in.Dialect
	if l == nil {
		l = lang.Lookup(lang.Default)
	}
	level := in.Level
	if level == "" {
		level = BaseLevels[0]
	}
	max := in.Options.MaxIdentifierLength

	var args []string
	if in.Options.AlwaysLogFilename && in.Filename != "" {
		args = append(args, Quote(fmt.Sprintf("%s:%d", Shorten(in.Filename, max), in.Line)))
	}

	label := strings.TrimSpace(in.Label)
	switch {
	case label != "":
	case len(in.Candidates) == 0:
		label = fmt.Sprintf("L%d", in.Line)
	case len(in.Candidates) == 1 && !in.Candidates[0].Literal:
		label = in.Candidates[0].Name
	}
	if label != "" {
		args = append(args, Quote(Shorten(label, max)))
	}

	for _, c := range in.Candidates {
		switch {
		case c.Literal:
			args = append(args, c.Name)
		case len(in.Candidates) == 1 && c.Name == label:
			args = append(args, c.Name)
		default:
			args = append(args, Quote(Shorten(c.Name, max)+":"), c.Name)
		}
	}

	text := fmt.Sprintf("%s.%s(%s)", consoleObject(l), level, strings.Join(args, ", "))
	if in.Options.PrintTrailingSemicolons && l.UsesTerminators {
		text += ";"
	}
	return model.LogStatement{Text: text, Level: level, Line: in.Line}
}

func consoleObject(l *lang.Language) string {
	if l.ConsoleObject == "" {
		return "console"
	}
	return l.ConsoleObject
}

// Quote renders s as a single-quoted string literal.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// Shorten puts `...` in the middle of s when it is longer than max, keeping
// the last three characters. A max of zero or less disables shortening;
// limits too small for the ellipsis just truncate.
func Shorten(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 6 {
		return string(r[:max])
	}
	return string(r[:max-6]) + "..." + string(r[len(r)-3:])
}

// Levels returns the severity cycle for a configured default level. A custom
// level joins the cycle after the built-in ones.
func Levels(defaultLevel string) []string {
	levels := append([]string(nil), BaseLevels...)
	if defaultLevel == "" {
		return levels
	}
	for _, lv := range levels {
		if lv == defaultLevel {
			return levels
		}
	}
	return append(levels, defaultLevel)
}

var levelRe = regexp.MustCompile(`^(\s*)([A-Za-z_$][\w$]*)\.([A-Za-z_$][\w$]*)`)

// CurrentLevel returns the severity of a line starting with
// `<object>.<level>`, or "" when the line does not start that way or the
// method is not in levels.
func CurrentLevel(line string, levels []string) string {
	m := levelRe.FindStringSubmatch(line)
	if m == nil || m[2] != "console" {
		return ""
	}
	if indexOf(levels, m[3]) < 0 {
		return ""
	}
	return m[3]
}

// Cycle replaces the level of a log line with the next one in levels
// (previous one when dir is Up). ok is false when line is not a log line.
func Cycle(line string, dir model.Direction, levels []string) (string, string, bool) {
	m := levelRe.FindStringSubmatchIndex(line)
	if m == nil || line[m[4]:m[5]] != "console" {
		return line, "", false
	}
	current := line[m[6]:m[7]]
	i := indexOf(levels, current)
	if i < 0 {
		return line, "", false
	}
	step := 1
	if dir == model.Up {
		step = -1
	}
	next := levels[(i+step+len(levels))%len(levels)]
	return line[:m[6]] + next + line[m[7]:], next, true
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
