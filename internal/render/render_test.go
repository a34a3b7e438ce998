package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
)

func cands(names ...string) []model.Candidate {
	out := make([]model.Candidate, 0, len(names))
	for _, n := range names {
		out = append(out, model.Candidate{Name: n})
	}
	return out
}

func TestRender(t *testing.T) {
	t.Parallel()
	js, coffee := lang.Lookup("javascript"), lang.Lookup("coffeescript")

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "single candidate named like the label",
			in:   Input{Label: "foo", Candidates: cands("foo"), Dialect: js},
			want: "console.log('foo', foo)",
		},
		{
			name: "keys for every candidate",
			in:   Input{Label: "fn", Candidates: cands("a", "fn(1, 2)"), Dialect: js},
			want: "console.log('fn', 'a:', a, 'fn(1, 2):', fn(1, 2))",
		},
		{
			name: "label without candidates",
			in:   Input{Label: "return", Dialect: js},
			want: "console.log('return')",
		},
		{
			name: "fallback marker",
			in:   Input{Line: 42, Dialect: js},
			want: "console.log('L42')",
		},
		{
			name: "lone candidate becomes the label",
			in:   Input{Candidates: cands("a.b"), Dialect: js},
			want: "console.log('a.b', a.b)",
		},
		{
			name: "string literal rendered raw",
			in:   Input{Label: "emit", Candidates: []model.Candidate{{Name: "'change'", Literal: true}, {Name: "v"}}, Dialect: coffee},
			want: "console.log('emit', 'change', 'v:', v)",
		},
		{
			name: "quotes escaped",
			in:   Input{Label: "it's", Candidates: cands(`a['k']`), Dialect: js},
			want: `console.log('it\'s', 'a[\'k\']:', a['k'])`,
		},
		{
			name: "level",
			in:   Input{Label: "x", Candidates: cands("x"), Level: "error", Dialect: js},
			want: "console.error('x', x)",
		},
		{
			name: "filename prefix and semicolon",
			in: Input{Label: "x", Candidates: cands("x"), Line: 7, Filename: "lib/util.js", Dialect: js,
				Options: Options{AlwaysLogFilename: true, PrintTrailingSemicolons: true}},
			want: "console.log('lib/util.js:7', 'x', x);",
		},
		{
			name: "coffee never gets a semicolon",
			in:   Input{Label: "x", Candidates: cands("x"), Dialect: coffee, Options: Options{PrintTrailingSemicolons: true}},
			want: "console.log('x', x)",
		},
		{
			name: "shortened display keeps the expression",
			in: Input{Label: "result", Candidates: cands("someObject.someProperty"), Dialect: js,
				Options: Options{MaxIdentifierLength: 12}},
			want: "console.log('result', 'someOb...rty:', someObject.someProperty)",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Render(tt.in)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestShorten(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", Shorten("abc", 0))
	assert.Equal(t, "abcdefghij", Shorten("abcdefghij", 10))
	assert.Equal(t, "abcd...klm", Shorten("abcdefghijklm", 10))
	assert.Len(t, Shorten("abcdefghijklmnopqrstuvwxyz", 21), 21)
	assert.Equal(t, "abc", Shorten("abcdefgh", 3))
}

func TestLevels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"log", "info", "warn", "error"}, Levels(""))
	assert.Equal(t, []string{"log", "info", "warn", "error"}, Levels("warn"))
	assert.Equal(t, []string{"log", "info", "warn", "error", "trace"}, Levels("trace"))
}

func TestCycle(t *testing.T) {
	t.Parallel()
	levels := Levels("log")

	line := "    console.log('x', x); // keep"
	var seen []string
	for i := 0; i < 4; i++ {
		next, level, ok := Cycle(line, model.Down, levels)
		require.True(t, ok)
		line = next
		seen = append(seen, level)
	}
	assert.Equal(t, []string{"info", "warn", "error", "log"}, seen)
	assert.Equal(t, "    console.log('x', x); // keep", line)

	up, level, ok := Cycle("console.info('x')", model.Up, levels)
	require.True(t, ok)
	assert.Equal(t, "console.log('x')", up)
	assert.Equal(t, "log", level)

	_, _, ok = Cycle("console.debug('x')", model.Down, levels)
	assert.False(t, ok)
	_, _, ok = Cycle("logger.log('x')", model.Down, levels)
	assert.False(t, ok)
	_, _, ok = Cycle("x = 1", model.Down, levels)
	assert.False(t, ok)
}

func TestCurrentLevel(t *testing.T) {
	t.Parallel()
	levels := Levels("log")

	assert.Equal(t, "warn", CurrentLevel("  console.warn('a')", levels))
	assert.Equal(t, "", CurrentLevel("console.table(rows)", levels))
	assert.Equal(t, "", CurrentLevel("foo.log('a')", levels))
}
