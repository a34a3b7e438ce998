package classify

import (
	"regexp"
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/scan"
)

var (
	returnTypeRe = regexp.MustCompile(`\)\s*:\s*[\w$.<>\[\]|&, ?]+$`)
	modifiers    = map[string]struct{}{
		"async": {}, "static": {}, "get": {}, "set": {}, "public": {},
		"private": {}, "protected": {}, "override": {}, "*": {},
	}
)

// functionDef recognizes the innermost function whose parameters are in
// scope after the line: one introduced by `function`, an arrow, or a method
// shorthand `name(params) {`. Functions closed on the same line are ignored.
func functionDef(s string, lay *scan.Layout, l *lang.Language, dir model.Direction) (model.Construct, bool) {
	kw := lastTopLevelWord(lay, "function")
	arrow := -1
	for _, a := range l.Arrows {
		if all := lay.IndexAll(a); len(all) > 0 && all[len(all)-1] > arrow {
			arrow = all[len(all)-1]
		}
	}

	var head, params string
	switch {
	case kw >= 0 && kw > arrow:
		head, params = keywordFunction(s, kw, l)
	case arrow >= 0:
		head, params = arrowFunction(s[:arrow], l)
	default:
		return methodShorthand(s, l)
	}

	if dir == model.Up {
		if name := assignedName(head, l); name != "" {
			return model.Construct{Kind: model.Assignment, Label: name, Text: name}, true
		}
	}
	return model.Construct{Kind: model.ParameterList, Label: labelBefore(head, l), Text: strings.TrimSpace(params)}, true
}

func lastTopLevelWord(lay *scan.Layout, word string) int {
	found := -1
	from := 0
	for {
		i := lay.IndexWord(word, from)
		if i < 0 {
			return found
		}
		found = i
		from = i + 1
	}
}

// keywordFunction splits `head function name(params)` into the text before
// the keyword (with name, when present, substituted as the head) and the
// parameter text.
func keywordFunction(s string, kw int, l *lang.Language) (string, string) {
	head := s[:kw]
	rest := strings.TrimLeft(s[kw+len("function"):], " \t*")
	name := scan.FirstWord(rest)
	rest = strings.TrimSpace(rest[len(name):])
	if name != "" {
		head = name
	}
	if !strings.HasPrefix(rest, "(") {
		return head, ""
	}
	if p, ok := scan.Analyze(rest, l).GroupAt(0); ok {
		return head, rest[1:p.Close]
	}
	return head, strings.TrimRight(rest[1:], "{ \t")
}

// arrowFunction splits the text before an arrow into head and parameters.
func arrowFunction(before string, l *lang.Language) (string, string) {
	before = strings.TrimSpace(before)
	if loc := returnTypeRe.FindStringIndex(before); loc != nil {
		before = before[:loc[0]+1]
	}
	if strings.HasSuffix(before, ")") {
		if p, ok := scan.Analyze(before, l).GroupClosingAt(len(before) - 1); ok {
			return trimAsync(before[:p.Open]), before[p.Open+1 : p.Close]
		}
		return before, ""
	}
	if id := scan.TrailingIdent(before); id != "" && !IsKeyword(id) {
		head := before[:len(before)-len(id)]
		if !strings.HasSuffix(strings.TrimSpace(head), ".") {
			return trimAsync(head), id
		}
	}
	return trimAsync(before), ""
}

func trimAsync(head string) string {
	head = strings.TrimSpace(head)
	if strings.HasSuffix(head, "async") && scan.TrailingIdent(head) == "async" {
		head = strings.TrimSpace(head[:len(head)-len("async")])
	}
	return head
}

// methodShorthand recognizes `name(params) {`, `async name(params): T {`
// and `catch (err) {`.
func methodShorthand(s string, l *lang.Language) (model.Construct, bool) {
	if !strings.HasSuffix(s, "{") {
		return model.Construct{}, false
	}
	before := strings.TrimSpace(s[:len(s)-1])
	if loc := returnTypeRe.FindStringIndex(before); loc != nil {
		before = before[:loc[0]+1]
	}
	if !strings.HasSuffix(before, ")") {
		return model.Construct{}, false
	}
	p, ok := scan.Analyze(before, l).GroupClosingAt(len(before) - 1)
	if !ok {
		return model.Construct{}, false
	}
	head := strings.TrimSpace(before[:p.Open])
	name := scan.TrailingIdent(head)
	if name == "" {
		return model.Construct{}, false
	}
	for _, word := range strings.Fields(head[:len(head)-len(name)]) {
		if _, ok := modifiers[word]; !ok {
			return model.Construct{}, false
		}
	}
	if name != "catch" && IsKeyword(name) {
		return model.Construct{}, false
	}
	return model.Construct{Kind: model.ParameterList, Label: name, Text: strings.TrimSpace(before[p.Open+1 : p.Close])}, true
}

// assignedName returns the variable a function expression is assigned to.
func assignedName(head string, l *lang.Language) string {
	hl := scan.Analyze(head, l)
	i := hl.AssignIndex()
	if i <= 0 {
		return ""
	}
	lhs := stripDecl(strings.TrimSpace(head[:i]))
	return scan.CutTypeAnnotation(lhs, l)
}

// labelBefore names a function from the text preceding it: the variable it
// is assigned to, the object key it is stored under, or the call it is
// passed to.
func labelBefore(head string, l *lang.Language) string {
	head = strings.TrimSpace(head)
	if rest, ok := scan.TrimWord(head, "function"); ok {
		head = rest
	}
	if head == "" {
		return ""
	}
	if name := assignedName(head, l); name != "" {
		return name
	}
	if strings.HasSuffix(head, ":") {
		if key := scan.TrailingIdent(strings.TrimSpace(head[:len(head)-1])); key != "" {
			return key
		}
	}

	hl := scan.Analyze(head, l)
	if open := hl.UnclosedBefore(len(head), '('); open >= 0 {
		return calleeName(head[:open])
	}

	if l.ImplicitCalls {
		if name := implicitCallee(head, l); name != "" {
			return name
		}
	}
	// CoffeeScript implicit call: `fn (a) ->`
	if scan.IsIdentifier(head) && !IsKeyword(head) {
		return head
	}
	return ""
}

// implicitCallee returns the callee of a parenthesis-free call such as
// `$('a').on 'click',` whose last argument is the function.
func implicitCallee(head string, l *lang.Language) string {
	spaces := scan.Analyze(head, l).IndexAll(" ")
	if len(spaces) == 0 {
		return ""
	}
	name, ok := bareCallee(head[:spaces[0]], l)
	if !ok || IsKeyword(name) {
		return ""
	}
	return name
}

// calleeName returns the last member of the call chain s ends with. Member
// names may be reserved words (`p.then`, `map.delete`); bare callees may not.
func calleeName(s string) string {
	s = strings.TrimRight(s, " \t!")
	chain := scan.TrailingChain(s)
	member := strings.Contains(chain, ".") ||
		strings.HasSuffix(strings.TrimRight(s[:len(s)-len(chain)], " \t?"), ".")
	if i := strings.LastIndex(chain, "."); i >= 0 {
		chain = chain[i+1:]
	}
	chain = strings.TrimSpace(chain)
	if !member && IsKeyword(chain) {
		return ""
	}
	return chain
}
