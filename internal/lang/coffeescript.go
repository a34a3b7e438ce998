package lang

// CoffeeScript has no grammar in the tree-sitter bindings we use, so
// log-call recognition falls back to the line signature.
func init() {
	Languages["coffeescript"] = &Language{
		Name:                "coffeescript",
		Extensions:          []string{".coffee", ".litcoffee"},
		ImplicitCalls:       true,
		PostfixConditionals: true,
		CommentPrefixes:     []string{"#"},
		Arrows:              []string{"->", "=>"},
		ConsoleObject:       "console",
		Literals:            []string{"true", "false", "null", "undefined", "yes", "no", "on", "off"},
	}
}
