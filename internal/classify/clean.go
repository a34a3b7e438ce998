package classify

import (
	"regexp"
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/scan"
)

var operatorTail = regexp.MustCompile(`(?:[-+*/%&|^!=<>?:,.]|\b(?:and|or|not|is|isnt|in|of|instanceof|typeof))\s*$`)

// Clean reduces a raw line to the first statement worth classifying: it
// drops comments, leading closers and `else`, export keywords, wrapping
// parentheses, terminators, `from` clauses and postfix conditionals.
func Clean(line string, l *lang.Language) string {
	s := strings.TrimSpace(line)
	s = scan.StripComment(s, l)

	for s != "" && strings.IndexByte("})]", s[0]) >= 0 {
		s = strings.TrimSpace(s[1:])
	}
	s, _ = scan.TrimWord(s, "else")
	s = strings.Trim(s, "; \t")
	s = scan.Unwrap(s, l, "(")
	if s == "" {
		return s
	}

	lay := scan.Analyze(s, l)
	if i := lay.Index(";"); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.TrimRight(s, ", \t")
	s = scan.Unwrap(s, l, "(")

	for _, kw := range []string{"export", "default"} {
		s, _ = scan.TrimWord(s, kw)
	}

	if scan.FirstWord(s) == "import" {
		if i := scan.Analyze(s, l).IndexWord("from", 0); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
	}

	if l.PostfixConditionals {
		s = stripPostfix(s, l)
	}
	return s
}

// stripPostfix removes a trailing `if cond` / `unless cond` guard.
func stripPostfix(s string, l *lang.Language) string {
	lay := scan.Analyze(s, l)
	for _, kw := range []string{"if", "unless"} {
		i := lay.IndexWord(kw, 1)
		if i < 0 {
			continue
		}
		prefix := strings.TrimSpace(s[:i])
		if prefix == "" || operatorTail.MatchString(prefix) {
			continue
		}
		return prefix
	}
	return s
}
