// Package parse finds log calls in source files using tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrSyntax is returned when the parse tree contains errors; callers fall
// back to line scanning.
var ErrSyntax = errors.New("source has syntax errors")

// Call is an expression statement calling `<object>.<method>(<string>, ...)`.
type Call struct {
	Object string
	Method string
	// 1-based inclusive lines; columns are 0-based byte offsets.
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

// Result is a parsed buffer: the matched log calls and the lines that begin
// inside a multi-line string, template or comment.
type Result struct {
	Calls   []Call
	Literal map[int]bool // 1-based
}

// literalTypes are the node types whose text is not code.
var literalTypes = map[string]bool{
	"string":          true,
	"template_string": true,
	"comment":         true,
	"regex":           true,
}

// FindLogCalls parses source and returns every statement matched by the log
// query, in source order. The parser must be created for the query's
// language.
func FindLogCalls(ctx context.Context, parser *sitter.Parser, query *sitter.Query, source []byte) ([]Call, error) {
	r, err := Parse(ctx, parser, query, source)
	if err != nil {
		return nil, err
	}
	return r.Calls, nil
}

// Parse is FindLogCalls that also reports the literal lines of source.
func Parse(ctx context.Context, parser *sitter.Parser, query *sitter.Query, source []byte) (*Result, error) {
	r := &Result{Literal: map[int]bool{}}
	if len(source) == 0 {
		return r, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, ErrSyntax
	}
	markLiterals(root, r.Literal)

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var call Call
		var stmt *sitter.Node
		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "object":
				call.Object = nodeText(c.Node, source)
			case "method":
				call.Method = nodeText(c.Node, source)
			case "statement":
				stmt = c.Node
			}
		}
		if stmt == nil || call.Object == "" || call.Method == "" {
			continue
		}

		start, end := stmt.StartPoint(), stmt.EndPoint()
		call.StartLine = int(start.Row) + 1
		call.EndLine = int(end.Row) + 1
		call.StartColumn = int(start.Column)
		call.EndColumn = int(end.Column)
		r.Calls = append(r.Calls, call)
	}
	return r, nil
}

// markLiterals records every line after the first of a multi-line literal.
func markLiterals(n *sitter.Node, lines map[int]bool) {
	if literalTypes[n.Type()] {
		start, end := int(n.StartPoint().Row), int(n.EndPoint().Row)
		for row := start + 1; row <= end; row++ {
			lines[row+1] = true
		}
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		markLiterals(n.Child(i), lines)
	}
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
