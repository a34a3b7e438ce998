// Package scan splits source lines into balanced top-level segments.
//
// A Layout records, for every byte of a line, whether it sits inside a
// string/template/regex literal and whether it is nested inside a matched
// bracket pair. Unmatched brackets never nest anything, so a line with an
// unclosed `(` still exposes everything before it at the top level.
package scan

import (
	"sort"
	"strings"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
)

// Pair is a matched bracket pair; Open and Close are byte offsets.
type Pair struct {
	Open  int
	Close int
	Char  byte
}

// Layout is the bracket/literal structure of a line.
type Layout struct {
	Text     string
	literal  []bool
	nested   []bool
	pairs    []Pair
	balanced bool
}

var closers = map[byte]byte{')': '(', ']': '[', '}': '{'}

// Analyze computes the layout of s for the given dialect. It never fails.
func Analyze(s string, l *lang.Language) *Layout {
	n := len(s)
	lay := &Layout{
		Text:     s,
		literal:  make([]bool, n),
		nested:   make([]bool, n),
		balanced: true,
	}

	var stack []Pair
	var prev byte // last non-space code byte

	for i := 0; i < n; i++ {
		c := s[i]
		switch c {
		case '"', '\'', '`':
			end, ok := closeQuote(s, i)
			if !ok {
				lay.balanced = false
			}
			lay.markLiteral(i, end)
			i = end
			prev = c
			continue
		case '/':
			if l != nil && l.RegexLiterals && startsRegex(prev) && i+1 < n && s[i+1] != '/' && s[i+1] != '*' {
				if end := closeRegex(s, i); end > i {
					lay.markLiteral(i, end)
					i = end
					prev = '/'
					continue
				}
			}
		case '(', '[', '{':
			stack = append(stack, Pair{Open: i, Char: c})
		case ')', ']', '}':
			if len(stack) > 0 && stack[len(stack)-1].Char == closers[c] {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				p.Close = i
				lay.pairs = append(lay.pairs, p)
			} else {
				lay.balanced = false
			}
		}
		if c != ' ' && c != '\t' {
			prev = c
		}
	}
	if len(stack) > 0 {
		lay.balanced = false
	}

	sort.Slice(lay.pairs, func(i, j int) bool {
		return lay.pairs[i].Open < lay.pairs[j].Open
	})
	for _, p := range lay.pairs {
		for k := p.Open + 1; k < p.Close; k++ {
			lay.nested[k] = true
		}
	}
	return lay
}

func (lay *Layout) markLiteral(from, to int) {
	for k := from; k <= to && k < len(lay.literal); k++ {
		lay.literal[k] = true
	}
}

// closeQuote returns the offset of the quote closing the literal opened at i.
// Unterminated literals run to the end of the line.
func closeQuote(s string, i int) (int, bool) {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j, true
		}
	}
	return len(s) - 1, false
}

// startsRegex reports whether a `/` following prev opens a regex literal:
// it must not follow an identifier, a number, a closing bracket or a string.
func startsRegex(prev byte) bool {
	if prev == 0 {
		return true
	}
	if IsIdentByte(prev) {
		return false
	}
	switch prev {
	case ')', ']', '}', '"', '\'', '`':
		return false
	}
	return true
}

func closeRegex(s string, i int) int {
	inClass := false
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return j
			}
		}
	}
	return -1
}

// IsIdentByte reports whether b may appear in a JavaScript identifier.
func IsIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') ||
		b >= 0x80
}

// Balanced reports whether every bracket and literal on the line is closed.
func (lay *Layout) Balanced() bool {
	return lay.balanced
}

// InLiteral reports whether byte i belongs to a string, template or regex literal.
func (lay *Layout) InLiteral(i int) bool {
	return i >= 0 && i < len(lay.literal) && lay.literal[i]
}

// Nested reports whether byte i lies strictly inside a matched bracket pair.
func (lay *Layout) Nested(i int) bool {
	return i >= 0 && i < len(lay.nested) && lay.nested[i]
}

// TopLevel reports whether byte i is code outside any matched bracket pair.
func (lay *Layout) TopLevel(i int) bool {
	return i >= 0 && i < len(lay.literal) && !lay.literal[i] && !lay.nested[i]
}

// Pairs returns the matched bracket pairs ordered by opening offset.
func (lay *Layout) Pairs() []Pair {
	return lay.pairs
}

// GroupAt returns the pair opened at offset open.
func (lay *Layout) GroupAt(open int) (Pair, bool) {
	for _, p := range lay.pairs {
		if p.Open == open {
			return p, true
		}
	}
	return Pair{}, false
}

// GroupClosingAt returns the pair closed at offset pos.
func (lay *Layout) GroupClosingAt(pos int) (Pair, bool) {
	for _, p := range lay.pairs {
		if p.Close == pos {
			return p, true
		}
	}
	return Pair{}, false
}

// LastGroup returns the outermost pair of kind ch that closes last.
func (lay *Layout) LastGroup(ch byte) (Pair, bool) {
	var best Pair
	found := false
	for _, p := range lay.pairs {
		if p.Char != ch || lay.nested[p.Open] {
			continue
		}
		if !found || p.Close > best.Close {
			best, found = p, true
		}
	}
	return best, found
}

// FirstGroup returns the outermost pair of kind ch that opens first.
func (lay *Layout) FirstGroup(ch byte) (Pair, bool) {
	for _, p := range lay.pairs {
		if p.Char == ch && !lay.nested[p.Open] {
			return p, true
		}
	}
	return Pair{}, false
}

// UnclosedBefore returns the offset of the innermost bracket of kind ch that
// is still open at position pos, or -1.
func (lay *Layout) UnclosedBefore(pos int, ch byte) int {
	var stack []int
	for i := 0; i < pos && i < len(lay.Text); i++ {
		if lay.literal[i] {
			continue
		}
		switch lay.Text[i] {
		case '(', '[', '{':
			stack = append(stack, i)
		case ')', ']', '}':
			if len(stack) > 0 && lay.Text[stack[len(stack)-1]] == closers[lay.Text[i]] {
				stack = stack[:len(stack)-1]
			}
		}
	}
	for k := len(stack) - 1; k >= 0; k-- {
		if lay.Text[stack[k]] == ch {
			return stack[k]
		}
	}
	return -1
}

// IndexAll returns the top-level offsets where sub starts.
func (lay *Layout) IndexAll(sub string) []int {
	var out []int
	if sub == "" {
		return out
	}
	for i := 0; i+len(sub) <= len(lay.Text); i++ {
		if lay.TopLevel(i) && strings.HasPrefix(lay.Text[i:], sub) {
			out = append(out, i)
		}
	}
	return out
}

// Index returns the first top-level offset of sub, or -1.
func (lay *Layout) Index(sub string) int {
	for i := 0; i+len(sub) <= len(lay.Text); i++ {
		if lay.TopLevel(i) && strings.HasPrefix(lay.Text[i:], sub) {
			return i
		}
	}
	return -1
}

// IndexCode returns the first offset of sub outside literals, nested or not.
func (lay *Layout) IndexCode(sub string) int {
	for i := 0; i+len(sub) <= len(lay.Text); i++ {
		if !lay.literal[i] && strings.HasPrefix(lay.Text[i:], sub) {
			return i
		}
	}
	return -1
}

// LastIndexCode returns the last offset of sub outside literals, or -1.
func (lay *Layout) LastIndexCode(sub string) int {
	for i := len(lay.Text) - len(sub); i >= 0; i-- {
		if !lay.literal[i] && strings.HasPrefix(lay.Text[i:], sub) {
			return i
		}
	}
	return -1
}

// IndexWord returns the first top-level offset of word standing as a whole
// word, searching from offset from.
func (lay *Layout) IndexWord(word string, from int) int {
	for _, i := range lay.IndexAll(word) {
		if i < from {
			continue
		}
		end := i + len(word)
		if i > 0 && IsIdentByte(lay.Text[i-1]) {
			continue
		}
		if end < len(lay.Text) && IsIdentByte(lay.Text[end]) {
			continue
		}
		return i
	}
	return -1
}

// Split splits the line at top-level occurrences of delim. An unbalanced line
// is returned as a single segment.
func (lay *Layout) Split(delim string) []model.Segment {
	if lay.Text == "" {
		return nil
	}
	if !lay.balanced || delim == "" {
		return []model.Segment{{Text: lay.Text, Start: 0, End: len(lay.Text)}}
	}
	var segs []model.Segment
	start := 0
	for _, i := range lay.IndexAll(delim) {
		if i < start {
			continue
		}
		segs = append(segs, model.Segment{Text: lay.Text[start:i], Start: start, End: i})
		start = i + len(delim)
	}
	segs = append(segs, model.Segment{Text: lay.Text[start:], Start: start, End: len(lay.Text)})
	return segs
}

// Split is the comma split of s.
func Split(s string, l *lang.Language) []model.Segment {
	return Analyze(s, l).Split(",")
}

// Parts returns the trimmed texts of the comma split of s.
func Parts(s string, l *lang.Language) []string {
	segs := Split(s, l)
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		out = append(out, strings.TrimSpace(seg.Text))
	}
	return out
}

// Balanced reports whether s has no unmatched bracket or literal.
func Balanced(s string, l *lang.Language) bool {
	return Analyze(s, l).Balanced()
}

// IsWrapped reports whether s is entirely enclosed by one bracket pair whose
// opening character is in chars.
func IsWrapped(s string, l *lang.Language, chars string) bool {
	if len(s) < 2 || !strings.ContainsRune(chars, rune(s[0])) {
		return false
	}
	p, ok := Analyze(s, l).GroupAt(0)
	return ok && p.Close == len(s)-1
}

// Unwrap strips enclosing bracket pairs of the given kinds.
func Unwrap(s string, l *lang.Language, chars string) string {
	s = strings.TrimSpace(s)
	for IsWrapped(s, l, chars) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
