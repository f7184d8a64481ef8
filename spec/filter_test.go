package spec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func atSelf() *SingularQueryExpr { return SingularQuery(false, nil) }

func TestLogicalAndTestFilter(t *testing.T) {
	t.Parallel()

	truthy := Comparison(atSelf(), EqualTo, Literal(1))
	falsy := Comparison(atSelf(), EqualTo, Literal(2))

	assert.True(t, And(truthy).testFilter(1, nil))
	assert.False(t, And(truthy, falsy).testFilter(1, nil))
}

func TestLogicalOrTestFilter(t *testing.T) {
	t.Parallel()

	truthy := And(Comparison(atSelf(), EqualTo, Literal(1)))
	falsy := And(Comparison(atSelf(), EqualTo, Literal(2)))

	assert.True(t, Or(falsy, truthy).testFilter(1, nil))
	assert.False(t, Or(falsy).testFilter(1, nil))
}

func TestLogicalOrString(t *testing.T) {
	t.Parallel()

	lo := Or(
		And(Comparison(atSelf(), EqualTo, Literal(1))),
		And(Comparison(atSelf(), EqualTo, Literal(2))),
	)
	assert.Equal(t, "@ == 1 || @ == 2", lo.String())
}

func TestLogicalOrExecute(t *testing.T) {
	t.Parallel()

	lo := Or(And(Comparison(atSelf(), EqualTo, Literal(1))))
	assert.Equal(t, FuncLogical, lo.ResultType())
	assert.Equal(t, LogicalTrue, lo.execute(1, nil))
	assert.Equal(t, LogicalFalse, lo.execute(2, nil))
}

func TestParenExprTestFilter(t *testing.T) {
	t.Parallel()

	p := Paren(And(Comparison(atSelf(), EqualTo, Literal(1))))
	assert.True(t, p.testFilter(1, nil))
	assert.False(t, p.testFilter(2, nil))
	assert.Equal(t, "(@ == 1)", p.String())
}

func TestNotParenExprTestFilter(t *testing.T) {
	t.Parallel()

	np := NotParen(And(Comparison(atSelf(), EqualTo, Literal(1))))
	assert.False(t, np.testFilter(1, nil))
	assert.True(t, np.testFilter(2, nil))
	assert.Equal(t, "!(@ == 1)", np.String())
}

func TestExistExprTestFilter(t *testing.T) {
	t.Parallel()

	exists := Existence(Query(false, []*Segment{Child(Name("x"))}))
	assert.True(t, exists.testFilter(map[string]any{"x": 1}, nil))
	assert.False(t, exists.testFilter(map[string]any{"y": 1}, nil))
}

func TestNonExistExprTestFilter(t *testing.T) {
	t.Parallel()

	notExists := Nonexistence(Query(false, []*Segment{Child(Name("x"))}))
	assert.False(t, notExists.testFilter(map[string]any{"x": 1}, nil))
	assert.True(t, notExists.testFilter(map[string]any{"y": 1}, nil))

	buf := new(strings.Builder)
	notExists.writeTo(buf)
	assert.Equal(t, `!@["x"]`, buf.String())
}
