// Package lang provides a dialect registry mapping file extensions to
// dialect capabilities and, where available, tree-sitter grammars with their
// embedded query files.
package lang

import (
	"embed"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Default is the dialect used when none is given or the name is unknown.
const Default = "javascript"

// Language holds the capabilities of a supported dialect.
type Language struct {
	Name       string
	Extensions []string

	// UsesParens is false when calls may omit their parentheses.
	UsesParens bool
	// UsesTerminators is true when statements may end with a semicolon.
	UsesTerminators bool
	// RegexLiterals enables the `/.../` literal heuristic in the scanner.
	RegexLiterals bool
	// ImplicitCalls enables `name args` call recognition.
	ImplicitCalls bool
	// PostfixConditionals enables stripping of trailing `if`/`unless`.
	PostfixConditionals bool

	CommentPrefixes []string
	Arrows          []string
	ConsoleObject   string
	// Literals are bare words that never name a value worth logging.
	Literals []string

	lang      *sitter.Language
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error
}

// HasGrammar reports whether a tree-sitter grammar backs this dialect.
func (l *Language) HasGrammar() bool {
	return l.lang != nil
}

// GetLanguage returns the tree-sitter Language pointer, nil if none.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this dialect.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetLogQuery returns the compiled log-call query (safe to share across goroutines).
func (l *Language) GetLogQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		if l.lang == nil {
			l.queryErr = fmt.Errorf("%s: no grammar", l.Name)
			return
		}
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// IsLiteral reports whether word is one of the dialect's literal keywords.
func (l *Language) IsLiteral(word string) bool {
	for _, lit := range l.Literals {
		if lit == word {
			return true
		}
	}
	return false
}

// Languages maps dialect names to their configuration.
// Populated by init() functions in per-dialect files.
var Languages = map[string]*Language{}

// Lookup returns the named dialect, falling back to Default.
func Lookup(name string) *Language {
	if l, ok := Languages[name]; ok {
		return l
	}
	return Languages[Default]
}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the dialect name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}
