package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1gy/jpp/spec"
)

func TestLengthFunc(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		arg  spec.PathValue
		want spec.PathValue
	}{
		{"string", spec.Value("foo"), spec.Value(3)},
		{"unicode_string", spec.Value("foø"), spec.Value(3)},
		{"array", spec.Value([]any{1, 2}), spec.Value(2)},
		{"object", spec.Value(map[string]any{"a": 1, "b": 2}), spec.Value(2)},
		{"number", spec.Value(1), nil},
		{"nothing", nil, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := lengthFunc([]spec.PathValue{tc.arg})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCountFunc(t *testing.T) {
	t.Parallel()

	got := countFunc([]spec.PathValue{spec.NodesType{1, 2, 3}})
	assert.Equal(t, spec.Value(3), got)

	got = countFunc([]spec.PathValue{spec.NodesType{}})
	assert.Equal(t, spec.Value(0), got)
}

func TestValueFunc(t *testing.T) {
	t.Parallel()

	got := valueFunc([]spec.PathValue{spec.NodesType{42}})
	assert.Equal(t, spec.Value(42), got)

	assert.Nil(t, valueFunc([]spec.PathValue{spec.NodesType{}}))
	assert.Nil(t, valueFunc([]spec.PathValue{spec.NodesType{1, 2}}))
}

func TestMatchFunc(t *testing.T) {
	t.Parallel()

	r := New()
	for _, tc := range []struct {
		name    string
		subject string
		pattern string
		want    spec.LogicalType
	}{
		{"full_match", "abc", "a.c", spec.LogicalTrue},
		{"partial_no_match", "xabcx", "abc", spec.LogicalFalse},
		{"dot_excludes_newline", "a\nc", "a.c", spec.LogicalFalse},
		{"invalid_pattern", "abc", "a(", spec.LogicalFalse},
		{"alternation_anchored", "ab", "a|ab", spec.LogicalTrue},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := r.matchFunc([]spec.PathValue{spec.Value(tc.subject), spec.Value(tc.pattern)})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchFuncNonStringArgs(t *testing.T) {
	t.Parallel()

	r := New()
	got := r.matchFunc([]spec.PathValue{spec.Value(1), spec.Value("a")})
	assert.Equal(t, spec.LogicalFalse, got)
}

func TestSearchFunc(t *testing.T) {
	t.Parallel()

	r := New()
	got := r.searchFunc([]spec.PathValue{spec.Value("xabcx"), spec.Value("abc")})
	assert.Equal(t, spec.LogicalTrue, got)

	got = r.searchFunc([]spec.PathValue{spec.Value("xyz"), spec.Value("abc")})
	assert.Equal(t, spec.LogicalFalse, got)
}

func TestCompileRegexRewritesDot(t *testing.T) {
	t.Parallel()

	re := compileRegex("a.c")
	assert.NotNil(t, re)
	assert.True(t, re.MatchString("abc"))
	assert.False(t, re.MatchString("a\nc"))
	assert.False(t, re.MatchString("a\rc"))
}

func TestCompileRegexInvalid(t *testing.T) {
	t.Parallel()
	assert.Nil(t, compileRegex("a("))
}
