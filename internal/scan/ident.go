package scan

import (
	"regexp"
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
)

var (
	identRe        = regexp.MustCompile(`^[A-Za-z_$@][\w$]*$`)
	trailingIdent  = regexp.MustCompile(`[A-Za-z_$@][\w$]*$`)
	trailingChain  = regexp.MustCompile(`[A-Za-z_$@][\w$]*(?:\s*\??\.\s*[A-Za-z_$][\w$]*)*$`)
	leadingWordsRe = regexp.MustCompile(`^([A-Za-z_$][\w$]*)`)
)

// IsIdentifier reports whether s is a single identifier (CoffeeScript `@x` included).
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// TrailingIdent returns the identifier s ends with, or "".
func TrailingIdent(s string) string {
	return trailingIdent.FindString(s)
}

// TrailingChain returns the member chain s ends with (`a.b?.c`), or "".
func TrailingChain(s string) string {
	return trailingChain.FindString(s)
}

// FirstWord returns the leading identifier of s, or "".
func FirstWord(s string) string {
	m := leadingWordsRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// TrimWord removes word from the start of s when it stands as a whole word.
func TrimWord(s, word string) (string, bool) {
	if FirstWord(s) != word {
		return s, false
	}
	return strings.TrimSpace(s[len(word):]), true
}

// AssignIndex returns the offset of the first top-level assignment operator
// `=`, excluding `==`, `!=`, `<=`, `>=` and `=>`. Compound operators such as
// `+=` count; the returned offset is that of their `=`.
func (lay *Layout) AssignIndex() int {
	s := lay.Text
	for _, i := range lay.IndexAll("=") {
		if i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0 {
			continue
		}
		if i+1 < len(s) && (s[i+1] == '=' || s[i+1] == '>') {
			continue
		}
		return i
	}
	return -1
}

// CutTypeAnnotation drops everything from the first top-level `:` on.
func CutTypeAnnotation(s string, l *lang.Language) string {
	if i := Analyze(s, l).Index(":"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// IsStringLiteral reports whether s is exactly one string or template literal.
func IsStringLiteral(s string, l *lang.Language) bool {
	if len(s) < 2 || strings.IndexByte("'\"`", s[0]) < 0 || s[len(s)-1] != s[0] {
		return false
	}
	lay := Analyze(s, l)
	for i := range s {
		if !lay.InLiteral(i) {
			return false
		}
	}
	// `'a' + 'b'` style texts contain code between two literals
	end := 1
	for ; end < len(s); end++ {
		if s[end] == '\\' {
			end++
			continue
		}
		if s[end] == s[0] {
			break
		}
	}
	return end == len(s)-1
}

// StripComment removes a trailing line comment that is not inside a literal.
func StripComment(s string, l *lang.Language) string {
	lay := Analyze(s, l)
	for _, prefix := range l.CommentPrefixes {
		if i := lay.IndexCode(prefix); i >= 0 {
			s = strings.TrimSpace(s[:i])
			lay = Analyze(s, l)
		}
	}
	return s
}
