package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
)

var js = lang.Lookup("javascript")

func names(cands []model.Candidate) []string {
	out := []string{}
	for _, c := range cands {
		out = append(out, c.Name)
	}
	return out
}

func TestExtractNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    model.Construct
		want []string
	}{
		{"assignment", model.Construct{Kind: model.Assignment, Text: "x"}, []string{"x"}},
		{"annotated assignment", model.Construct{Kind: model.Assignment, Text: "x: number"}, []string{"x"}},
		{"empty assignment", model.Construct{Kind: model.Assignment}, []string{}},

		{"object pattern", model.Construct{Kind: model.Destructure, Text: "{a, b: c}"}, []string{"a", "c"}},
		{"nested object pattern", model.Construct{Kind: model.Destructure, Text: "{a: {b}}"}, []string{"b"}},
		{"computed key", model.Construct{Kind: model.Destructure, Text: "{[a]: b}"}, []string{"b"}},
		{"defaults", model.Construct{Kind: model.Destructure, Text: "{a = 1, b: c = 2}"}, []string{"a", "c"}},
		{"object rest", model.Construct{Kind: model.Destructure, Text: "{a, ...rest}"}, []string{"a", "rest"}},
		{"array pattern", model.Construct{Kind: model.Destructure, Text: "[a, b, ...rest]"}, []string{"a", "b", "rest"}},
		{"array elision", model.Construct{Kind: model.Destructure, Text: "[, x, , y]"}, []string{"x", "y"}},
		{"mixed nesting", model.Construct{Kind: model.Destructure, Text: "{a: [b, {c}], d}"}, []string{"b", "c", "d"}},
		{"import clause", model.Construct{Kind: model.Destructure, Text: "React, {useState as state, useEffect}"}, []string{"React", "state", "useEffect"}},
		{"namespace import", model.Construct{Kind: model.Destructure, Text: "* as path"}, []string{"path"}},
		{"loop head", model.Construct{Kind: model.Destructure, Text: "key, value"}, []string{"key", "value"}},

		{"params", model.Construct{Kind: model.ParameterList, Text: "a, b"}, []string{"a", "b"}},
		{"params with defaults and types", model.Construct{Kind: model.ParameterList, Text: "x = 1, y: number"}, []string{"x", "y"}},
		{"optional and rest", model.Construct{Kind: model.ParameterList, Text: "a?: string, ...args: any[]"}, []string{"a", "args"}},
		{"accessibility modifiers", model.Construct{Kind: model.ParameterList, Text: "private readonly http: Client, public name"}, []string{"http", "name"}},
		{"destructured param", model.Construct{Kind: model.ParameterList, Text: "{a, b = 25}: Props = {}, c"}, []string{"a", "b", "c"}},
		{"default is a call", model.Construct{Kind: model.ParameterList, Text: "a = fn(b, c), d"}, []string{"a", "d"}},
		{"no params", model.Construct{Kind: model.ParameterList}, []string{}},

		{"arguments kept raw", model.Construct{Kind: model.ArgumentList, Text: "a, fn(b, c), 'x', d.e"}, []string{"a", "fn(b, c)", "'x'", "d.e"}},

		{"return", model.Construct{Kind: model.Return, Text: " a + b "}, []string{"a + b"}},
		{"empty return", model.Construct{Kind: model.Return}, []string{}},
		{"condition", model.Construct{Kind: model.Condition, Text: "ready"}, []string{"ready"}},
		{"unknown", model.Construct{Kind: model.Unknown, Text: "foo"}, []string{"foo"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, names(Extract(tt.c, js)))
		})
	}
}

func TestExtractHints(t *testing.T) {
	t.Parallel()

	got := Extract(model.Construct{Kind: model.Destructure, Text: "{a: b = 5, c}"}, js)
	assert.Equal(t, []model.Candidate{
		{Name: "b", Source: "a", Default: "5"},
		{Name: "c"},
	}, got)

	got = Extract(model.Construct{Kind: model.ParameterList, Text: "x = {}"}, js)
	assert.Equal(t, []model.Candidate{{Name: "x", Default: "{}"}}, got)
}

func TestExtractMarksStringLiterals(t *testing.T) {
	t.Parallel()

	got := Extract(model.Construct{Kind: model.ArgumentList, Text: `'change', "x" + y, value`}, js)
	assert.Equal(t, []model.Candidate{
		{Name: "'change'", Literal: true},
		{Name: `"x" + y`},
		{Name: "value"},
	}, got)
}
