package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phobologic/logmagic/internal/lang"
)

var (
	js     = lang.Lookup("javascript")
	coffee = lang.Lookup("coffeescript")
)

func TestParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		l    *lang.Language
		want []string
	}{
		{"plain", "a, b, c", js, []string{"a", "b", "c"}},
		{"nested", "fn(1, 2), [a, b], {c: d, e}", js, []string{"fn(1, 2)", "[a, b]", "{c: d, e}"}},
		{"strings", `'a,b', "c,d", ` + "`e,${f}`", js, []string{"'a,b'", `"c,d"`, "`e,${f}`"}},
		{"escaped quote", `'it\'s, fine', x`, js, []string{`'it\'s, fine'`, "x"}},
		{"regex", "/a,b/g, x", js, []string{"/a,b/g", "x"}},
		{"division is not regex", "a / b, c / d", js, []string{"a / b", "c / d"}},
		{"coffee has no regex heuristic", "a /b, c/", coffee, []string{"a /b", "c/"}},
		{"unbalanced", "fn(a, b", js, []string{"fn(a, b"}},
		{"elision", ", x", js, []string{"", "x"}},
		{"empty", "", js, []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parts(tt.in, tt.l))
		})
	}
}

func TestSplitOffsets(t *testing.T) {
	t.Parallel()

	segs := Split("ab, (c, d)", js)
	if assert.Len(t, segs, 2) {
		assert.Equal(t, 0, segs[0].Start)
		assert.Equal(t, 2, segs[0].End)
		assert.Equal(t, 3, segs[1].Start)
		assert.Equal(t, " (c, d)", segs[1].Text)
	}
}

func TestBalanced(t *testing.T) {
	t.Parallel()

	assert.True(t, Balanced("fn(a, [b], {c})", js))
	assert.True(t, Balanced("'(' + \")\"", js))
	assert.False(t, Balanced("fn(a", js))
	assert.False(t, Balanced("a)", js))
	assert.False(t, Balanced("(]", js))
	assert.False(t, Balanced("'open", js))
}

func TestWrapping(t *testing.T) {
	t.Parallel()

	assert.True(t, IsWrapped("(a, b)", js, "("))
	assert.False(t, IsWrapped("(a)(b)", js, "("))
	assert.False(t, IsWrapped("{a}", js, "("))
	assert.Equal(t, "a + b", Unwrap("(( a + b ))", js, "("))
	assert.Equal(t, "(a)(b)", Unwrap("(a)(b)", js, "("))
}

func TestLayoutQueries(t *testing.T) {
	t.Parallel()

	lay := Analyze("a = fn(b = 1) == 'c = d'", js)
	assert.Equal(t, 2, lay.AssignIndex())
	assert.Equal(t, -1, lay.Index("b"))
	assert.Equal(t, 7, lay.IndexCode("b"))
	assert.True(t, lay.InLiteral(len(lay.Text)-2))
	assert.True(t, lay.Nested(8))
	assert.False(t, lay.TopLevel(8))

	p, ok := lay.LastGroup('(')
	assert.True(t, ok)
	assert.Equal(t, 6, p.Open)
	assert.Equal(t, 12, p.Close)

	open := Analyze("fn(a, function(b) {", js)
	assert.Equal(t, 2, open.UnclosedBefore(len(open.Text), '('))
	assert.Equal(t, 6, open.IndexWord("function", 0))
}

func TestAssignIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"a = b", 2},
		{"a += b", 3},
		{"a == b", -1},
		{"a === b", -1},
		{"a != b", -1},
		{"a <= b", -1},
		{"a >= b", -1},
		{"a => b", -1},
		{"{a = 1} = b", 8},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Analyze(tt.in, js).AssignIndex())
		})
	}
}

func TestIdentHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsIdentifier("$el"))
	assert.True(t, IsIdentifier("@name"))
	assert.False(t, IsIdentifier("a.b"))
	assert.Equal(t, "c", TrailingIdent("a.b.c"))
	assert.Equal(t, "a.b?.c", TrailingChain("x = a.b?.c"))
	assert.Equal(t, "const", FirstWord("const x"))

	rest, ok := TrimWord("constant = 1", "const")
	assert.False(t, ok)
	assert.Equal(t, "constant = 1", rest)
	rest, ok = TrimWord("const x", "const")
	assert.True(t, ok)
	assert.Equal(t, "x", rest)

	assert.Equal(t, "obj", CutTypeAnnotation("obj:{a:String}", js))
}

func TestIsStringLiteral(t *testing.T) {
	t.Parallel()

	assert.True(t, IsStringLiteral("'a'", js))
	assert.True(t, IsStringLiteral(`"a, b"`, js))
	assert.True(t, IsStringLiteral(`'it\'s'`, js))
	assert.True(t, IsStringLiteral("`x ${y}`", js))
	assert.False(t, IsStringLiteral("'a' + 'b'", js))
	assert.False(t, IsStringLiteral("'a''b'", js))
	assert.False(t, IsStringLiteral("a", js))
	assert.False(t, IsStringLiteral("'", js))
}

func TestStripComment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a = 1", StripComment("a = 1 // set a", js))
	assert.Equal(t, "url = 'http://x'", StripComment("url = 'http://x'", js))
	assert.Equal(t, "a = 1", StripComment("a = 1 # note", coffee))
	assert.Equal(t, `s = "#{a}"`, StripComment(`s = "#{a}"`, coffee))
}
