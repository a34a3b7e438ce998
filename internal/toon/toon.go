// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// log statement reports.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/logmagic/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a scan or strip report into TOON format.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))

	var fileRows [][]string
	total := 0
	for i := range r.Files {
		f := &r.Files[i]
		total += len(f.Matches)
		fileRows = append(fileRows, []string{
			f.Path,
			f.Dialect,
			fmt.Sprintf("%d", len(f.Matches)),
			fmt.Sprintf("%t", f.Removed),
		})
	}
	parts = append(parts, fmt.Sprintf("statements: %d", total))
	parts = append(parts, formatTabular("files", []string{"path", "dialect", "statements", "removed"}, fileRows))

	var matchRows [][]string
	for i := range r.Files {
		f := &r.Files[i]
		for j := range f.Matches {
			m := &f.Matches[j]
			matchRows = append(matchRows, []string{
				f.Path,
				fmt.Sprintf("%d", m.Range.StartLine),
				fmt.Sprintf("%d", m.Range.EndLine),
				m.Range.Level,
				m.Text,
			})
		}
	}
	parts = append(parts, formatTabular("matches", []string{"file", "start", "end", "level", "text"}, matchRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
