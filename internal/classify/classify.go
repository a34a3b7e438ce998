// Package classify decides which syntactic construct a source line represents.
//
// Rules are checked in a fixed priority order and the first one that fits
// wins:
//
//  1. function definition (keyword, arrow, method shorthand) -> ParameterList
//  2. import clause or top-level assignment -> Destructure / Assignment
//  3. bare call expression -> ArgumentList
//  4. return / throw / yield -> Return
//  5. control-flow head -> Condition (for-loop heads bind names: Destructure)
//  6. anything else -> Unknown
package classify

import (
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/scan"
)

// Options carries the context of a classification.
type Options struct {
	Direction model.Direction
	// Next is the line following the classified one. It is consulted only
	// when logging upwards.
	Next string
}

var keywords = map[string]struct{}{
	"if": {}, "else": {}, "for": {}, "while": {}, "until": {}, "unless": {},
	"switch": {}, "case": {}, "catch": {}, "with": {}, "function": {},
	"return": {}, "throw": {}, "yield": {}, "typeof": {}, "delete": {},
	"var": {}, "let": {}, "const": {}, "new": {}, "import": {}, "export": {},
	"default": {}, "class": {}, "extends": {}, "when": {}, "then": {},
	"try": {}, "finally": {}, "do": {}, "loop": {}, "instanceof": {},
	"in": {}, "of": {}, "and": {}, "or": {}, "not": {}, "is": {}, "isnt": {},
	"await": {}, "async": {}, "break": {}, "continue": {}, "void": {},
}

// IsKeyword reports whether word is reserved in either dialect.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// Classify returns the construct represented by line.
func Classify(line string, l *lang.Language, opts Options) model.Construct {
	text := Clean(line, l)
	c := classifyClean(text, l, opts.Direction)

	if opts.Direction == model.Up && strings.TrimSpace(opts.Next) != "" && prefersNext(c, text, l) {
		next := classifyClean(Clean(opts.Next, l), l, model.Down)
		if next.Kind == model.ArgumentList {
			return next
		}
	}
	return c
}

// prefersNext reports whether an upward log from this line should describe
// the call on the following line instead: returns and lines opening a
// callback pass their interesting values on to it.
func prefersNext(c model.Construct, text string, l *lang.Language) bool {
	if c.Kind == model.Return {
		return true
	}
	return opensCallback(text, l)
}

func opensCallback(text string, l *lang.Language) bool {
	trimmed := strings.TrimSpace(text)
	opens := strings.HasSuffix(trimmed, "{")
	for _, arrow := range l.Arrows {
		opens = opens || strings.HasSuffix(trimmed, arrow)
	}
	if !opens {
		return false
	}
	return scan.Analyze(trimmed, l).UnclosedBefore(len(trimmed), '(') >= 0
}

func classifyClean(s string, l *lang.Language, dir model.Direction) model.Construct {
	if s == "" {
		return model.Construct{Kind: model.Unknown}
	}
	lay := scan.Analyze(s, l)

	if c, ok := functionDef(s, lay, l, dir); ok {
		return c
	}
	if c, ok := importClause(s, l); ok {
		return c
	}
	if c, ok := assignment(s, lay, l); ok {
		return c
	}
	if c, ok := call(s, lay, l); ok {
		return c
	}
	if c, ok := returnStmt(s); ok {
		return c
	}
	if c, ok := control(s, lay, l); ok {
		return c
	}
	return unknown(s, lay)
}

// stripDecl removes a leading declaration keyword.
func stripDecl(s string) string {
	for _, kw := range []string{"var", "let", "const", "declare"} {
		if rest, ok := scan.TrimWord(s, kw); ok {
			s = rest
		}
	}
	return s
}

func importClause(s string, l *lang.Language) (model.Construct, bool) {
	rest, ok := scan.TrimWord(s, "import")
	if !ok {
		return model.Construct{}, false
	}
	rest, _ = scan.TrimWord(rest, "type")
	if rest == "" || rest[0] == '\'' || rest[0] == '"' {
		return model.Construct{Kind: model.Unknown, Label: "import"}, true
	}
	return model.Construct{Kind: model.Destructure, Label: "import", Text: rest}, true
}

func assignment(s string, lay *scan.Layout, l *lang.Language) (model.Construct, bool) {
	decl := stripDecl(s) != s
	i := lay.AssignIndex()
	switch {
	case i > 0:
	case decl:
		i = len(s) // `let a, b` declares without initializers
	default:
		return model.Construct{}, false
	}
	lhs := strings.TrimRight(strings.TrimSpace(s[:i]), "+-*/%&|^?! \t")
	lhs = stripDecl(lhs)
	if lhs == "" {
		return model.Construct{}, false
	}

	// Several declarators: `let a, b = 1`.
	if decl && declarators(lhs, l) {
		return model.Construct{Kind: model.Destructure, Label: lhs, Text: lhs}, true
	}

	if lhs[0] == '{' || lhs[0] == '[' {
		pattern := lhs
		if p, ok := scan.Analyze(lhs, l).GroupAt(0); ok {
			pattern = lhs[:p.Close+1]
		}
		return model.Construct{Kind: model.Destructure, Label: pattern, Text: pattern}, true
	}

	name := strings.TrimRight(scan.CutTypeAnnotation(lhs, l), "!? \t")
	if name == "" || strings.ContainsAny(name, " \t") && !strings.Contains(name, ".") {
		return model.Construct{}, false
	}
	return model.Construct{Kind: model.Assignment, Label: name, Text: name}, true
}

// declarators reports whether lhs lists more than one declared binding.
// Commas inside type arguments (`Map<K, V>`) do not separate declarators.
func declarators(lhs string, l *lang.Language) bool {
	parts := scan.Parts(lhs, l)
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		name := strings.TrimSpace(scan.CutTypeAnnotation(p, l))
		if !scan.IsIdentifier(name) && !scan.IsWrapped(name, l, "{[") {
			return false
		}
	}
	return true
}

func returnStmt(s string) (model.Construct, bool) {
	for _, kw := range []string{"return", "throw", "yield"} {
		if rest, ok := scan.TrimWord(s, kw); ok {
			return model.Construct{Kind: model.Return, Label: kw, Text: rest}, true
		}
	}
	return model.Construct{}, false
}

func control(s string, lay *scan.Layout, l *lang.Language) (model.Construct, bool) {
	word := scan.FirstWord(s)
	switch word {
	case "if", "while", "until", "unless", "switch", "when":
	case "for":
		return forHead(strings.TrimSpace(s[len(word):]), l), true
	default:
		return model.Construct{}, false
	}

	rest := strings.TrimSpace(s[len(word):])
	cond := rest
	if strings.HasPrefix(rest, "(") {
		rl := scan.Analyze(rest, l)
		if p, ok := rl.GroupAt(0); ok {
			cond = rest[1:p.Close]
		} else {
			cond = rest[1:]
		}
	} else {
		cl := scan.Analyze(cond, l)
		if i := cl.IndexWord("then", 0); i > 0 {
			cond = cond[:i]
		}
		cond = strings.TrimRight(cond, "{ \t")
	}
	return model.Construct{Kind: model.Condition, Label: word, Text: strings.TrimSpace(cond)}, true
}

// forHead extracts the names bound by a loop head: `let i = 0; ...`,
// `const [k, v] of entries`, CoffeeScript `own k, v of obj`.
func forHead(rest string, l *lang.Language) model.Construct {
	rest, _ = scan.TrimWord(rest, "await")
	head := rest
	if strings.HasPrefix(rest, "(") {
		if p, ok := scan.Analyze(rest, l).GroupAt(0); ok {
			head = rest[1:p.Close]
		} else {
			head = rest[1:]
		}
	}
	head = strings.TrimSpace(head)

	hl := scan.Analyze(head, l)
	if i := hl.Index(";"); i >= 0 {
		clause := strings.TrimSpace(head[:i])
		if eq := scan.Analyze(clause, l).AssignIndex(); eq > 0 {
			clause = clause[:eq]
		}
		head = clause
	} else {
		for _, kw := range []string{"of", "in"} {
			if i := hl.IndexWord(kw, 1); i > 0 {
				head = head[:i]
				break
			}
		}
	}
	head = strings.TrimSpace(stripDecl(strings.TrimSpace(head)))
	head, _ = scan.TrimWord(head, "own")
	return model.Construct{Kind: model.Destructure, Label: "for", Text: head}
}

// unknown handles the fallback; an object-literal entry `key: value` keeps
// only its key as the label since the key is not a variable in scope.
func unknown(s string, lay *scan.Layout) model.Construct {
	if i := lay.Index(":"); i > 0 {
		key := strings.TrimSpace(s[:i])
		if scan.IsIdentifier(key) && !IsKeyword(key) {
			return model.Construct{Kind: model.Unknown, Label: key}
		}
	}
	return model.Construct{Kind: model.Unknown, Text: s}
}
