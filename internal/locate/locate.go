// Package locate recognizes generated log statements in a buffer and removes
// them.
//
// A line is a log statement when it consists solely of a call
// `console.<level>(...)`, level in the configured cycle, whose first argument
// is a string literal. Every statement the renderer produces has that shape;
// hand-written calls such as `console.log(err)` do not.
package locate

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/parse"
	"github.com/phobologic/logmagic/internal/scan"
)

// maxStatementLines bounds the continuation of an unbalanced call.
const maxStatementLines = 50

var callStartRe = regexp.MustCompile(`^console\s*\.\s*([A-Za-z_$][\w$]*)\s*\(`)

// IsLogStatement reports whether text is exactly one log statement with a
// level in levels. text may span several lines.
func IsLogStatement(text string, l *lang.Language, levels []string) bool {
	_, ok := statementLevel(text, l, levels)
	return ok
}

func statementLevel(text string, l *lang.Language, levels []string) (string, bool) {
	t := scan.StripComment(strings.TrimSpace(text), l)
	t = strings.TrimSpace(strings.TrimSuffix(t, ";"))

	m := callStartRe.FindStringSubmatchIndex(t)
	if m == nil {
		return "", false
	}
	level := t[m[2]:m[3]]
	if !contains(levels, level) {
		return "", false
	}

	open := m[1] - 1
	p, ok := scan.Analyze(t, l).GroupAt(open)
	if !ok || p.Close != len(t)-1 {
		return "", false
	}
	args := scan.Parts(t[open+1:p.Close], l)
	if len(args) == 0 || !scan.IsStringLiteral(args[0], l) {
		return "", false
	}
	return level, true
}

// continuesRe matches a line that carries on the expression before it when
// that expression has no terminator, e.g. `[a, b].forEach(run)`.
var continuesRe = regexp.MustCompile("^\\s*[(\\[`.+\\-*/%,?:<>=&|]")

// FindAll returns the line ranges of every log statement in lines, in order.
// Dialects with a grammar are parsed with tree-sitter; the line scan is used
// otherwise and whenever the buffer does not parse cleanly.
func FindAll(lines []string, l *lang.Language, levels []string) []model.Range {
	scanned := findScanned(lines, l, levels)
	if !l.HasGrammar() {
		return scanned
	}
	parsed, literal, err := findParsed(lines, l, levels)
	if err != nil {
		return scanned
	}
	return mergeContinued(parsed, scanned, lines, literal)
}

// mergeContinued adds to parsed the scanned statements the tree could not
// confirm because the following line continues them into a larger
// expression. Lines inside multi-line literals are never statements.
func mergeContinued(parsed, scanned []model.Range, lines []string, literal map[int]bool) []model.Range {
	out := append([]model.Range(nil), parsed...)
	for _, sr := range scanned {
		if literal[sr.StartLine] || overlaps(parsed, sr) || !continuesRe.MatchString(nextCode(lines, sr.EndLine)) {
			continue
		}
		out = append(out, sr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartLine < out[j].StartLine
	})
	return out
}

// nextCode returns the first non-blank line at or after index i.
func nextCode(lines []string, i int) string {
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

func overlaps(ranges []model.Range, r model.Range) bool {
	for _, o := range ranges {
		if r.StartLine <= o.EndLine && o.StartLine <= r.EndLine {
			return true
		}
	}
	return false
}

func findScanned(lines []string, l *lang.Language, levels []string) []model.Range {
	var ranges []model.Range
	for i := 0; i < len(lines); i++ {
		if !callStartRe.MatchString(strings.TrimSpace(lines[i])) {
			continue
		}
		text := lines[i]
		end := i
		for !scan.Balanced(scan.StripComment(text, l), l) && end+1 < len(lines) && end-i < maxStatementLines {
			end++
			text += "\n" + lines[end]
		}
		if level, ok := statementLevel(text, l, levels); ok {
			ranges = append(ranges, model.Range{StartLine: i + 1, EndLine: end + 1, Level: level})
			i = end
		}
	}
	return ranges
}

func findParsed(lines []string, l *lang.Language, levels []string) ([]model.Range, map[int]bool, error) {
	q, err := l.GetLogQuery()
	if err != nil {
		return nil, nil, err
	}
	source := []byte(strings.Join(lines, "\n"))
	res, err := parse.Parse(context.Background(), l.NewParser(), q, source)
	if err != nil {
		return nil, nil, err
	}

	var ranges []model.Range
	for _, c := range res.Calls {
		if c.Object != "console" || !contains(levels, c.Method) {
			continue
		}
		first, last := lines[c.StartLine-1], lines[c.EndLine-1]
		if strings.TrimSpace(first[:c.StartColumn]) != "" {
			continue
		}
		if rest := strings.TrimSpace(last[c.EndColumn:]); rest != "" && scan.StripComment(rest, l) != "" {
			continue
		}
		ranges = append(ranges, model.Range{StartLine: c.StartLine, EndLine: c.EndLine, Level: c.Method})
	}
	return ranges, res.Literal, nil
}

// RemoveAll returns lines without the lines covered by ranges.
func RemoveAll(lines []string, ranges []model.Range) []string {
	drop := make(map[int]struct{})
	for _, r := range ranges {
		for n := r.StartLine; n <= r.EndLine; n++ {
			drop[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if _, ok := drop[i+1]; ok {
			continue
		}
		out = append(out, line)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
