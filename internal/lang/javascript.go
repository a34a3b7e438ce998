package lang

import (
	"github.com/smacker/go-tree-sitter/javascript"
)

func init() {
	Languages["javascript"] = &Language{
		Name:            "javascript",
		Extensions:      []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"},
		UsesParens:      true,
		UsesTerminators: true,
		RegexLiterals:   true,
		CommentPrefixes: []string{"//"},
		Arrows:          []string{"=>"},
		ConsoleObject:   "console",
		Literals:        []string{"true", "false", "null", "undefined"},
		lang:            javascript.GetLanguage(),
	}
}
