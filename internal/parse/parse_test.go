package parse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/logmagic/internal/lang"
)

func setup(t *testing.T) func(source string) ([]Call, error) {
	t.Helper()
	l := lang.Languages["javascript"]
	require.NotNil(t, l, "javascript not registered")
	q, err := l.GetLogQuery()
	require.NoError(t, err)
	return func(source string) ([]Call, error) {
		return FindLogCalls(context.Background(), l.NewParser(), q, []byte(source))
	}
}

func TestFindLogCallsSingleLine(t *testing.T) {
	t.Parallel()
	find := setup(t)

	calls, err := find("const a = 1;\n  console.log('a', a);\nfoo(a);\n")
	require.NoError(t, err)
	require.Len(t, calls, 1)

	c := calls[0]
	assert.Equal(t, "console", c.Object)
	assert.Equal(t, "log", c.Method)
	assert.Equal(t, 2, c.StartLine)
	assert.Equal(t, 2, c.EndLine)
	assert.Equal(t, 2, c.StartColumn)
}

func TestFindLogCallsMultiLine(t *testing.T) {
	t.Parallel()
	find := setup(t)

	src := "console.warn('fn',\n  'a:', a,\n  'b:', b)\n"
	calls, err := find(src)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "warn", calls[0].Method)
	assert.Equal(t, 1, calls[0].StartLine)
	assert.Equal(t, 3, calls[0].EndLine)
}

func TestFindLogCallsRequiresStringFirst(t *testing.T) {
	t.Parallel()
	find := setup(t)

	src := "console.log(a);\nconsole.error(`tpl ${x}`, x);\nlogger.info('x', x);\n"
	calls, err := find(src)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "error", calls[0].Method)
	assert.Equal(t, "logger", calls[1].Object)
}

func TestFindLogCallsIgnoresNestedCalls(t *testing.T) {
	t.Parallel()
	find := setup(t)

	calls, err := find("const x = console.log('a', a);\nfn(console.log('b'));\n")
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestFindLogCallsSyntaxError(t *testing.T) {
	t.Parallel()
	find := setup(t)

	_, err := find("function (a {\nconsole.log('a', a)\n")
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestFindLogCallsEmpty(t *testing.T) {
	t.Parallel()
	find := setup(t)

	calls, err := find("")
	require.NoError(t, err)
	assert.Nil(t, calls)
}

func TestParseReportsLiteralLines(t *testing.T) {
	t.Parallel()
	l := lang.Languages["javascript"]
	q, err := l.GetLogQuery()
	require.NoError(t, err)

	src := "const doc = `\nconsole.log('x', x)\n`;\n/* a\n b */\nconsole.log('y', y);\n"
	r, err := Parse(context.Background(), l.NewParser(), q, []byte(src))
	require.NoError(t, err)

	assert.Equal(t, map[int]bool{2: true, 3: true, 5: true}, r.Literal)
	require.Len(t, r.Calls, 1)
	assert.Equal(t, 6, r.Calls[0].StartLine)
}
