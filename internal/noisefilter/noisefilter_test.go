package noisefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
)

func TestIsNoise(t *testing.T) {
	t.Parallel()
	js := NewLiteralFilter(lang.Lookup("javascript"))

	tests := []struct {
		name string
		want bool
	}{
		{"value", false},
		{"obj.prop", false},
		{"fn(1, 2)", false},
		{"a + b", false},
		{"this.state", false},
		{"", true},
		{"   ", true},
		{"true", true},
		{"undefined", true},
		{"42", true},
		{"-3.5e10", true},
		{"0xFF", true},
		{"1_000n", true},
		{".5", true},
		{"NaN", true},
		{"''", true},
		{"{}", true},
		{"[]", true},
		{".then", true},
		{"obj.", true},
		{"fn(a", true},
		{"function() {}", true},
		{"(a) => a * 2", true},
		{"var x", true},
		{"a +", true},
		{"x ||", true},
		{"cursor", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, js.IsNoise(model.Candidate{Name: tt.name}))
		})
	}
}

func TestStringLiteralsAreKept(t *testing.T) {
	t.Parallel()
	js := NewLiteralFilter(lang.Lookup("javascript"))

	assert.False(t, js.IsNoise(model.Candidate{Name: "'change'", Literal: true}))
	assert.True(t, js.IsNoise(model.Candidate{Name: "''", Literal: true}))
}

func TestCoffeeLiterals(t *testing.T) {
	t.Parallel()

	coffee := For("coffeescript")
	assert.True(t, coffee.IsNoise(model.Candidate{Name: "yes"}))
	assert.True(t, coffee.IsNoise(model.Candidate{Name: "-> 1"}))
	assert.False(t, For("javascript").IsNoise(model.Candidate{Name: "yes"}))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	in := []model.Candidate{
		{Name: "a"},
		{Name: "null"},
		{Name: " b "},
		{Name: "1"},
		{Name: "a"},
		{Name: "c", Default: "3"},
	}
	got := Filter(in, lang.Lookup("javascript"))
	assert.Equal(t, []model.Candidate{{Name: "a"}, {Name: "b"}, {Name: "c", Default: "3"}}, got)

	assert.Empty(t, Filter([]model.Candidate{{Name: "true"}, {Name: "0"}}, lang.Lookup("javascript")))
}

type rejectAll struct{}

func (rejectAll) IsNoise(model.Candidate) bool { return true }

func TestRegister(t *testing.T) {
	Register("test-dialect", rejectAll{})
	assert.IsType(t, rejectAll{}, For("test-dialect"))
	assert.IsType(t, &LiteralFilter{}, For("unregistered"))
}
