// Package noisefilter drops extracted candidates that are not worth logging.
package noisefilter

import (
	"regexp"
	"strings"
	"sync"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/scan"
)

// NoiseFilter decides whether a single candidate is noise.
type NoiseFilter interface {
	IsNoise(c model.Candidate) bool
}

var (
	registryMu sync.RWMutex
	registry   = map[string]NoiseFilter{}
)

// Register installs the filter used for a dialect, replacing any earlier one.
func Register(dialect string, f NoiseFilter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[dialect] = f
}

// For returns the filter registered for dialect, or a LiteralFilter built
// from the dialect's capabilities when none is registered.
func For(dialect string) NoiseFilter {
	registryMu.RLock()
	f, ok := registry[dialect]
	registryMu.RUnlock()
	if ok {
		return f
	}
	return NewLiteralFilter(lang.Lookup(dialect))
}

func init() {
	for name, l := range lang.Languages {
		Register(name, NewLiteralFilter(l))
	}
}

// Filter removes noise and duplicates from cands, keeping source order.
func Filter(cands []model.Candidate, l *lang.Language) []model.Candidate {
	f := For(l.Name)
	seen := make(map[string]struct{}, len(cands))
	var out []model.Candidate
	for _, c := range cands {
		c.Name = strings.TrimSpace(c.Name)
		if f.IsNoise(c) {
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	return out
}

var (
	numericRe = regexp.MustCompile(`^[-+]?(?:0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|\d[\d_]*\.?[\d_]*(?:[eE][-+]?\d+)?|\.\d[\d_]*(?:[eE][-+]?\d+)?|NaN|Infinity)n?$`)
	// text ending in a binary operator or an opening brace is a fragment
	fragmentTailRe = regexp.MustCompile(`(?:[-+*/%&|^<>=!?,:{(\[]|\b(?:and|or|not|is|isnt|in|of|instanceof|typeof))$`)
	statementWords = map[string]struct{}{
		"var": {}, "let": {}, "const": {}, "function": {}, "class": {}, "if": {},
		"else": {}, "for": {}, "while": {}, "return": {}, "import": {},
		"export": {}, "switch": {}, "case": {}, "try": {}, "catch": {},
		"finally": {}, "throw": {}, "do": {}, "async": {},
	}
)

// LiteralFilter is the default filter. It knows the dialect's literal words
// and arrows.
type LiteralFilter struct {
	lang *lang.Language
}

// NewLiteralFilter returns a LiteralFilter for l.
func NewLiteralFilter(l *lang.Language) *LiteralFilter {
	return &LiteralFilter{lang: l}
}

// IsNoise implements NoiseFilter.
func (f *LiteralFilter) IsNoise(c model.Candidate) bool {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return true
	}
	if strings.Trim(name, "\"'`()[]{} \t") == "" {
		return true
	}
	if c.Literal {
		return false
	}
	if f.lang.IsLiteral(name) || numericRe.MatchString(name) {
		return true
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return true
	}

	lay := scan.Analyze(name, f.lang)
	if !lay.Balanced() {
		return true
	}
	if _, ok := statementWords[scan.FirstWord(name)]; ok {
		return true
	}
	for _, arrow := range f.lang.Arrows {
		if lay.Index(arrow) >= 0 {
			return true
		}
	}
	return fragmentTailRe.MatchString(name)
}
