package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathQuerySelect(t *testing.T) {
	t.Parallel()

	root := map[string]any{"a": map[string]any{"b": []any{1, 2, 3}}}
	q := Query(true, []*Segment{Child(Name("a")), Child(Name("b")), Child(Index(1))})
	assert.Equal(t, []any{2}, q.Select(nil, root))
}

func TestPathQuerySelectRelative(t *testing.T) {
	t.Parallel()

	current := map[string]any{"x": 1}
	q := Query(false, []*Segment{Child(Name("x"))})
	assert.Equal(t, []any{1}, q.Select(current, nil))
}

func TestPathQueryString(t *testing.T) {
	t.Parallel()

	q := Query(true, []*Segment{Child(Name("a")), Child(Index(0))})
	assert.Equal(t, `$["a"][0]`, q.String())

	rel := Query(false, nil)
	assert.Equal(t, "@", rel.String())
}

func TestPathQuerySingular(t *testing.T) {
	t.Parallel()

	singular := Query(true, []*Segment{Child(Name("a")), Child(Index(0))})
	sq := singular.Singular()
	require.NotNil(t, sq)
	assert.Equal(t, `$["a"][0]`, sq.String())

	nonSingular := Query(true, []*Segment{Child(Wildcard())})
	assert.Nil(t, nonSingular.Singular())
}

func TestPathQueryExpression(t *testing.T) {
	t.Parallel()

	singular := Query(true, []*Segment{Child(Name("a"))})
	_, ok := singular.Expression().(*SingularQueryExpr)
	assert.True(t, ok)

	nonSingular := Query(true, []*Segment{Child(Wildcard())})
	_, ok = nonSingular.Expression().(*FilterQueryExpr)
	assert.True(t, ok)
}

func TestPathQuerySelectLocated(t *testing.T) {
	t.Parallel()

	root := []any{map[string]any{"a": 1}, map[string]any{"a": 2}}
	q := Query(true, []*Segment{Child(Wildcard()), Child(Name("a"))})
	got := q.SelectLocated(nil, root)

	paths := make([]string, len(got))
	for i, n := range got {
		paths[i] = n.Path.String()
	}
	assert.ElementsMatch(t, []string{`$[0]['a']`, `$[1]['a']`}, paths)
}
