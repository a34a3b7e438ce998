package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/phobologic/logmagic/internal/model"
)

// buffer is a file split into lines. It remembers the dominant line ending
// and the trailing newline; a file with mixed endings is written back with
// the dominant one.
type buffer struct {
	lines       []string
	eol         string
	trailingEOL bool
}

func readBuffer(path string) (*buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parseBuffer(string(data)), nil
}

func parseBuffer(content string) *buffer {
	b := &buffer{eol: "\n"}
	if crlf := strings.Count(content, "\r\n"); crlf > strings.Count(content, "\n")-crlf {
		b.eol = "\r\n"
	}
	if content == "" {
		return b
	}
	if strings.HasSuffix(content, "\n") {
		b.trailingEOL = true
		content = strings.TrimSuffix(content, "\n")
	}
	b.lines = strings.Split(content, "\n")
	for i, line := range b.lines {
		b.lines[i] = strings.TrimSuffix(line, "\r")
	}
	return b
}

func (b *buffer) String() string {
	s := strings.Join(b.lines, b.eol)
	if b.trailingEOL && len(b.lines) > 0 {
		s += b.eol
	}
	return s
}

// apply performs an edit: a replacement of line e.Line, or an insertion that
// makes e.Text the new line e.Line.
func (b *buffer) apply(e model.Edit) {
	i := e.Line - 1
	if e.Replace {
		if i >= 0 && i < len(b.lines) {
			b.lines[i] = e.Text
		}
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(b.lines) {
		i = len(b.lines)
	}
	b.lines = append(b.lines[:i], append([]string{e.Text}, b.lines[i:]...)...)
}

func (b *buffer) write(path string) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(b.String()), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
