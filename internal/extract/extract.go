// Package extract turns a classified construct into the ordered list of
// values worth logging.
package extract

import (
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/scan"
)

var paramModifiers = []string{"public", "private", "protected", "readonly", "override"}

// Extract returns the candidates of c in left-to-right order.
func Extract(c model.Construct, l *lang.Language) []model.Candidate {
	switch c.Kind {
	case model.Assignment:
		name := strings.TrimSpace(scan.CutTypeAnnotation(c.Text, l))
		if name == "" {
			return nil
		}
		return []model.Candidate{{Name: name}}
	case model.Destructure:
		return Bindings(c.Text, l)
	case model.ParameterList:
		return Parameters(c.Text, l)
	case model.ArgumentList:
		return Arguments(c.Text, l)
	default:
		t := strings.TrimSpace(c.Text)
		if t == "" {
			return nil
		}
		return []model.Candidate{{Name: t, Literal: scan.IsStringLiteral(t, l)}}
	}
}

// Arguments keeps every top-level argument as written.
func Arguments(text string, l *lang.Language) []model.Candidate {
	var out []model.Candidate
	for _, arg := range scan.Parts(text, l) {
		if arg == "" {
			continue
		}
		out = append(out, model.Candidate{Name: arg, Literal: scan.IsStringLiteral(arg, l)})
	}
	return out
}

// Parameters returns the names bound by a parameter list.
func Parameters(text string, l *lang.Language) []model.Candidate {
	var out []model.Candidate
	for _, param := range scan.Parts(text, l) {
		out = append(out, element(param, l)...)
	}
	return out
}

// Bindings walks a destructuring pattern, or a plain comma list of binding
// elements, and returns the locally bound names.
func Bindings(pattern string, l *lang.Language) []model.Candidate {
	pattern = strings.TrimSpace(pattern)
	switch {
	case scan.IsWrapped(pattern, l, "{"):
		return objectPattern(pattern[1:len(pattern)-1], l)
	case scan.IsWrapped(pattern, l, "["):
		var out []model.Candidate
		for _, el := range scan.Parts(pattern[1:len(pattern)-1], l) {
			out = append(out, element(el, l)...) // elided slots are empty
		}
		return out
	}
	var out []model.Candidate
	for _, el := range scan.Parts(pattern, l) {
		out = append(out, element(el, l)...)
	}
	return out
}

func objectPattern(inner string, l *lang.Language) []model.Candidate {
	var out []model.Candidate
	for _, prop := range scan.Parts(inner, l) {
		if prop == "" {
			continue
		}
		if strings.HasPrefix(prop, "...") {
			out = append(out, element(prop, l)...)
			continue
		}

		body, def := splitDefault(prop, l)
		key := ""
		if i := scan.Analyze(body, l).Index(":"); i >= 0 {
			key = strings.TrimSpace(body[:i])
			body = strings.TrimSpace(body[i+1:])
		}
		cands := element(body, l)
		if len(cands) == 1 {
			if def != "" {
				cands[0].Default = def
			}
			if key != "" && key != cands[0].Name {
				cands[0].Source = key
			}
		}
		out = append(out, cands...)
	}
	return out
}

// element reduces one binding element to its names: rest markers, defaults,
// `as` renames, type annotations, optional markers and accessibility
// modifiers are stripped; nested patterns recurse.
func element(e string, l *lang.Language) []model.Candidate {
	e = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(e), "..."))
	for _, m := range paramModifiers {
		e, _ = scan.TrimWord(e, m)
	}
	body, def := splitDefault(e, l)
	if body == "" {
		return nil
	}

	if body[0] == '{' || body[0] == '[' {
		pattern := body
		if p, ok := scan.Analyze(body, l).GroupAt(0); ok {
			pattern = body[:p.Close+1]
		}
		return Bindings(pattern, l)
	}

	if i := scan.Analyze(body, l).IndexWord("as", 1); i > 0 {
		body = strings.TrimSpace(body[i+len("as"):])
	}
	body = scan.CutTypeAnnotation(body, l)
	body = strings.TrimSpace(strings.TrimRight(strings.TrimPrefix(body, "..."), "?! \t"))
	if body == "" {
		return nil
	}
	return []model.Candidate{{Name: body, Default: def}}
}

// splitDefault splits `name = value` at its top-level assignment.
func splitDefault(s string, l *lang.Language) (string, string) {
	s = strings.TrimSpace(s)
	if i := scan.Analyze(s, l).AssignIndex(); i > 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return s, ""
}
