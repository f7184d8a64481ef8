package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSelect(t *testing.T) {
	t.Parallel()

	obj := map[string]any{"a": 1, "b": 2}
	assert.Equal(t, []any{1}, Name("a").Select(obj, nil))
	assert.Equal(t, []any{}, Name("c").Select(obj, nil))
	assert.Equal(t, []any{}, Name("a").Select([]any{1, 2}, nil))
}

func TestNameString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"foo"`, Name("foo").String())
}

func TestWildcardSelect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []any{1, 2, 3}, Wildcard().Select([]any{1, 2, 3}, nil))

	obj := map[string]any{"a": 1}
	assert.Equal(t, []any{1}, Wildcard().Select(obj, nil))

	assert.Equal(t, []any{}, Wildcard().Select("not a container", nil))
	assert.Equal(t, "*", Wildcard().String())
}

func TestIndexSelect(t *testing.T) {
	t.Parallel()

	arr := []any{"a", "b", "c"}
	assert.Equal(t, []any{"a"}, Index(0).Select(arr, nil))
	assert.Equal(t, []any{"c"}, Index(-1).Select(arr, nil))
	assert.Equal(t, []any{}, Index(5).Select(arr, nil))
	assert.Equal(t, []any{}, Index(-5).Select(arr, nil))
}

func TestIndexSelectLocated(t *testing.T) {
	t.Parallel()

	arr := []any{"a", "b", "c"}
	got := Index(-1).SelectLocated(arr, nil, NormalizedPath{})
	assert.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Node)
	assert.Equal(t, "$[2]", got[0].Path.String())
}

func TestSliceSelect(t *testing.T) {
	t.Parallel()

	arr := []any{0, 1, 2, 3, 4, 5}
	for _, tc := range []struct {
		name string
		s    SliceSelector
		want []any
	}{
		{"default", Slice(), []any{0, 1, 2, 3, 4, 5}},
		{"start_end", Slice(1, 3, nil), []any{1, 2}},
		{"step_2", Slice(0, 6, 2), []any{0, 2, 4}},
		{"negative_step", Slice(nil, nil, -1), []any{5, 4, 3, 2, 1, 0}},
		{"negative_indexes", Slice(-2, nil, nil), []any{4, 5}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.s.Select(arr, nil))
		})
	}
}

func TestSliceString(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		s    SliceSelector
		want string
	}{
		{"default", Slice(), ":"},
		{"start_only", Slice(1, nil, nil), "1:"},
		{"full", Slice(1, 3, 2), "1:3:2"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.s.String())
		})
	}
}

func TestFilterSelectorSelect(t *testing.T) {
	t.Parallel()

	lessThanTen := Filter(And(Comparison(
		SingularQuery(false, nil),
		LessThan,
		Literal(10),
	)))

	arr := []any{1, 20, 3, 40}
	assert.Equal(t, []any{1, 3}, lessThanTen.Select(arr, nil))
}

func TestFilterSelectorEval(t *testing.T) {
	t.Parallel()

	exists := Filter(And(Existence(Query(false, []*Segment{Child(Name("x"))}))))
	assert.True(t, exists.Eval(map[string]any{"x": 1}, nil))
	assert.False(t, exists.Eval(map[string]any{"y": 1}, nil))
}
