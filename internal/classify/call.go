package classify

import (
	"regexp"
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/scan"
)

var implicitCallRe = regexp.MustCompile(`^([A-Za-z_$@][\w$.@]*)\s+([^\s=<>()\[\]{}+\-*/%&|,:?!.].*)$`)

// call recognizes a line that is a call expression and returns the argument
// text of its last call, so `a(x).b(y)` yields `y`.
func call(s string, lay *scan.Layout, l *lang.Language) (model.Construct, bool) {
	expr := s
	for _, kw := range []string{"await", "new", "void"} {
		expr, _ = scan.TrimWord(expr, kw)
	}
	offset := len(s) - len(expr)

	if strings.HasSuffix(s, ")") {
		if p, ok := lay.GroupClosingAt(len(s) - 1); ok && p.Open >= offset {
			if name, ok := bareCallee(s[offset:p.Open], l); ok {
				return model.Construct{Kind: model.ArgumentList, Label: name, Text: strings.TrimSpace(s[p.Open+1 : p.Close])}, true
			}
		}
	}

	// A call whose arguments continue on the next lines.
	if open := lay.UnclosedBefore(len(s), '('); open >= offset && !lay.Balanced() {
		if name, ok := bareCallee(s[offset:open], l); ok {
			return model.Construct{Kind: model.ArgumentList, Label: name, Text: strings.TrimSpace(s[open+1:])}, true
		}
	}

	if l.ImplicitCalls {
		return implicitCall(expr)
	}
	return model.Construct{}, false
}

// bareCallee checks that head is nothing but a call chain (`a.b(x).c`) and
// returns the name of its last member.
func bareCallee(head string, l *lang.Language) (string, bool) {
	head = strings.TrimSpace(head)
	if head == "" {
		return "", false
	}
	hl := scan.Analyze(head, l)
	for i := 0; i < len(head); i++ {
		if hl.Nested(i) {
			continue
		}
		if hl.InLiteral(i) {
			return "", false
		}
		c := head[i]
		if scan.IsIdentByte(c) || strings.IndexByte(".?!@()[]", c) >= 0 {
			continue
		}
		return "", false
	}
	if !hl.Balanced() {
		return "", false
	}
	name := calleeName(head)
	if name == "" || !strings.HasSuffix(strings.TrimRight(head, "!?"), name) {
		return "", false
	}
	return name, true
}

// implicitCall recognizes CoffeeScript's `name args` without parentheses.
func implicitCall(s string) (model.Construct, bool) {
	m := implicitCallRe.FindStringSubmatch(s)
	if m == nil {
		return model.Construct{}, false
	}
	callee, args := m[1], strings.TrimSpace(m[2])
	if IsKeyword(callee) || IsKeyword(scan.FirstWord(args)) {
		return model.Construct{}, false
	}
	name := callee
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return model.Construct{Kind: model.ArgumentList, Label: name, Text: args}, true
}
