// Package engine is the core-facing interface: it turns a line of source
// into a log statement edit, cycles existing statements and strips them from
// whole buffers.
package engine

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/phobologic/logmagic/internal/classify"
	"github.com/phobologic/logmagic/internal/config"
	"github.com/phobologic/logmagic/internal/extract"
	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/locate"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/noisefilter"
	"github.com/phobologic/logmagic/internal/render"
	"github.com/phobologic/logmagic/internal/scan"
)

// blockOpeners are line endings after which an inserted statement is
// indented one level deeper.
var blockOpeners = []string{"{", "=", ":", "->", "=>"}

// Request describes one invocation of the log command.
type Request struct {
	Text       string // the cursor line
	Next       string // the line after it, if any
	LineNumber int    // 1-based
	Direction  model.Direction
	Dialect    string
	Filename   string
}

// Engine holds the read-only configuration. It is safe for concurrent use.
type Engine struct {
	cfg    *config.Config
	levels []string
	log    logrus.FieldLogger
}

// New returns an Engine. A nil cfg means defaults; a nil logger discards.
func New(cfg *config.Config, logger logrus.FieldLogger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Engine{cfg: cfg, levels: cfg.Levels(), log: logger}
}

// Levels returns the severity cycle in use.
func (e *Engine) Levels() []string {
	return e.levels
}

// Log cycles the level when the cursor line already is a log call and
// otherwise returns the insertion of a new statement: below the line when
// logging down, above it when logging up.
func (e *Engine) Log(req Request) model.Edit {
	if edit, ok := e.Cycle(req); ok {
		return edit
	}

	l := lang.Lookup(req.Dialect)
	stmt := e.Statement(req)

	indent := leadingSpace(req.Text)
	line := req.LineNumber
	follower := req.Text
	if req.Direction != model.Up {
		line++
		follower = req.Next
		if opensBlock(req.Text, l) {
			indent += indentUnit(indent)
		}
	}
	text := stmt.Text
	if l.UsesTerminators && !strings.HasSuffix(text, ";") && continuesStatement(follower) {
		text += ";"
	}
	return model.Edit{Line: line, Text: indent + text, Level: stmt.Level}
}

// continuesStatement reports whether line, placed after an unterminated
// statement, would be parsed as part of it.
func continuesStatement(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.IndexByte("([`", line[0]) >= 0
}

// Cycle advances the level of the log call on the cursor line. ok is false
// when the line does not start with a call to a level of the cycle.
func (e *Engine) Cycle(req Request) (model.Edit, bool) {
	text, level, ok := render.Cycle(req.Text, req.Direction, e.levels)
	if !ok {
		return model.Edit{}, false
	}
	e.log.WithFields(logrus.Fields{"line": req.LineNumber, "level": level}).Debug("cycled log level")
	return model.Edit{Line: req.LineNumber, Text: text, Replace: true, Level: level}, true
}

// Statement renders the log statement for the cursor line without
// indentation.
func (e *Engine) Statement(req Request) model.LogStatement {
	l := lang.Lookup(req.Dialect)
	dir := req.Direction
	if dir == "" {
		dir = model.Down
	}

	c := classify.Classify(req.Text, l, classify.Options{Direction: dir, Next: req.Next})
	raw := extract.Extract(c, l)
	cands := noisefilter.Filter(raw, l)

	e.log.WithFields(logrus.Fields{
		"line":       req.LineNumber,
		"construct":  c.Kind,
		"label":      c.Label,
		"candidates": len(cands),
		"dropped":    len(raw) - len(cands),
	}).Debug("classified line")

	return render.Render(render.Input{
		Label:      c.Label,
		Candidates: cands,
		Level:      e.cfg.DefaultLogLevel,
		Line:       req.LineNumber,
		Filename:   req.Filename,
		Dialect:    l,
		Options:    e.cfg.RenderOptions(),
	})
}

// FindAll returns the ranges of every log statement in lines.
func (e *Engine) FindAll(lines []string, dialect string) []model.Range {
	return locate.FindAll(lines, lang.Lookup(dialect), e.levels)
}

// RemoveAll strips every log statement from lines and returns the remaining
// lines together with the removed ranges.
func (e *Engine) RemoveAll(lines []string, dialect string) ([]string, []model.Range) {
	ranges := e.FindAll(lines, dialect)
	if len(ranges) == 0 {
		return lines, nil
	}
	e.log.WithField("statements", len(ranges)).Debug("removing log statements")
	return locate.RemoveAll(lines, ranges), ranges
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func indentUnit(indent string) string {
	if strings.HasPrefix(indent, "\t") {
		return "\t"
	}
	return "  "
}

func opensBlock(line string, l *lang.Language) bool {
	text := scan.StripComment(strings.TrimSpace(line), l)
	for _, end := range blockOpeners {
		if strings.HasSuffix(text, end) {
			return true
		}
	}
	return false
}
