package jsonpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonpath "github.com/1gy/jpp"
	"github.com/1gy/jpp/registry"
	"github.com/1gy/jpp/spec"
)

func TestParseAndSelect(t *testing.T) {
	t.Parallel()

	p, err := jsonpath.Parse("$.store.book[*].author")
	require.NoError(t, err)

	doc := map[string]any{
		"store": map[string]any{
			"book": []any{
				map[string]any{"author": "Herman Melville"},
				map[string]any{"author": "J. R. R. Tolkien"},
			},
		},
	}

	got := p.Select(doc)
	assert.ElementsMatch(t, []any{"Herman Melville", "J. R. R. Tolkien"}, got)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	_, err := jsonpath.Parse("not a path")
	require.Error(t, err)
	assert.ErrorIs(t, err, jsonpath.ErrPathParse)

	var perr *jsonpath.Error
	require.ErrorAs(t, err, &perr)
	assert.GreaterOrEqual(t, perr.Position, 0)
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		jsonpath.MustParse("$[")
	})
	assert.NotPanics(t, func() {
		jsonpath.MustParse("$.a")
	})
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, jsonpath.Valid("$.a.b[0]"))
	assert.False(t, jsonpath.Valid("$["))
}

func TestQueryOneShot(t *testing.T) {
	t.Parallel()

	got, err := jsonpath.Query("$.a", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, []any{1}, got)
}

func TestWithRegistry(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	err := reg.Register("double", spec.FuncValue,
		func(args []spec.FuncExprArg) error { return nil },
		func(args []spec.PathValue) spec.PathValue {
			v := spec.ValueFrom(args[0])
			if v == nil {
				return nil
			}
			n, ok := v.Value().(int)
			if !ok {
				return nil
			}
			return spec.Value(n * 2)
		},
	)
	require.NoError(t, err)

	p, err := jsonpath.ParseWithRegistry(reg, "$[?double(@.n) == 4]")
	require.NoError(t, err)

	doc := []any{
		map[string]any{"n": 1},
		map[string]any{"n": 2},
	}
	got := p.Select(doc)
	assert.Equal(t, []any{map[string]any{"n": 2}}, got)
}

func TestSelectLocated(t *testing.T) {
	t.Parallel()

	p, err := jsonpath.Parse("$.a")
	require.NoError(t, err)

	got := p.SelectLocated(map[string]any{"a": 1})
	require.Len(t, got, 1)
	assert.Equal(t, `$['a']`, got[0].Path.String())
	assert.Equal(t, 1, got[0].Node)
}

func TestPathString(t *testing.T) {
	t.Parallel()

	p, err := jsonpath.Parse("$.a.b")
	require.NoError(t, err)
	assert.Equal(t, `$["a"]["b"]`, p.String())
}
