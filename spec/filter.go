package spec

import "strings"

// BasicExpr is a single term of a filter expression: a comparison, an
// existence test, a function call, a parenthesized group, or a nested
// LogicalAnd/LogicalOr.
type BasicExpr interface {
	stringWriter

	// testFilter evaluates the expression against current and root and
	// returns its truthiness, per RFC 9535 §2.3.5.2.
	testFilter(current, root any) bool
}

// LogicalAnd is one or more BasicExpr values joined by &&. It evaluates to
// true only if every expression does, short-circuiting on the first false.
type LogicalAnd []BasicExpr

// And constructs a LogicalAnd of expr.
func And(expr ...BasicExpr) LogicalAnd { return LogicalAnd(expr) }

func (la LogicalAnd) String() string {
	buf := new(strings.Builder)
	la.writeTo(buf)
	return buf.String()
}

func (la LogicalAnd) testFilter(current, root any) bool {
	for _, e := range la {
		if !e.testFilter(current, root) {
			return false
		}
	}
	return true
}

func (la LogicalAnd) writeTo(buf *strings.Builder) {
	for i, e := range la {
		e.writeTo(buf)
		if i < len(la)-1 {
			buf.WriteString(" && ")
		}
	}
}

// LogicalOr is one or more LogicalAnd values joined by ||. It evaluates to
// true if any of its terms does, short-circuiting on the first true.
type LogicalOr []LogicalAnd

// Or constructs a LogicalOr of expr.
func Or(expr ...LogicalAnd) LogicalOr { return LogicalOr(expr) }

func (lo LogicalOr) String() string {
	buf := new(strings.Builder)
	lo.writeTo(buf)
	return buf.String()
}

func (lo LogicalOr) testFilter(current, root any) bool {
	for _, e := range lo {
		if e.testFilter(current, root) {
			return true
		}
	}
	return false
}

func (lo LogicalOr) writeTo(buf *strings.Builder) {
	for i, e := range lo {
		e.writeTo(buf)
		if i < len(lo)-1 {
			buf.WriteString(" || ")
		}
	}
}

// execute evaluates lo as a function argument, satisfying FuncExprArg. A
// bare logical expression is not part of RFC 9535's function-argument
// grammar, but the parser accepts one as a convenience for extension
// functions that declare a FuncLogical argument slot.
func (lo LogicalOr) execute(current, root any) PathValue {
	return Logical(lo.testFilter(current, root))
}

// ResultType returns FuncLogical. Defined by the FuncExprArg interface.
func (lo LogicalOr) ResultType() FuncType { return FuncLogical }

// ConvertsTo reports whether lo's result can serve as a ft-typed function
// argument.
func (LogicalOr) ConvertsTo(ft FuncType) bool { return ft == FuncLogical }

// ParenExpr is a parenthesized LogicalOr, used to control operator
// precedence within a larger filter expression.
type ParenExpr struct {
	LogicalOr
}

// Paren constructs a ParenExpr around the OR of expr.
func Paren(expr ...LogicalAnd) *ParenExpr {
	return &ParenExpr{LogicalOr: LogicalOr(expr)}
}

func (p *ParenExpr) writeTo(buf *strings.Builder) {
	buf.WriteByte('(')
	p.LogicalOr.writeTo(buf)
	buf.WriteByte(')')
}

func (p *ParenExpr) String() string {
	buf := new(strings.Builder)
	p.writeTo(buf)
	return buf.String()
}

// NotParenExpr is a negated, parenthesized LogicalOr: !(...).
type NotParenExpr struct {
	LogicalOr
}

// NotParen constructs a NotParenExpr around the OR of expr.
func NotParen(expr ...LogicalAnd) *NotParenExpr {
	return &NotParenExpr{LogicalOr: LogicalOr(expr)}
}

func (np *NotParenExpr) writeTo(buf *strings.Builder) {
	buf.WriteString("!(")
	np.LogicalOr.writeTo(buf)
	buf.WriteByte(')')
}

func (np *NotParenExpr) String() string {
	buf := new(strings.Builder)
	np.writeTo(buf)
	return buf.String()
}

func (np *NotParenExpr) testFilter(current, root any) bool {
	return !np.LogicalOr.testFilter(current, root)
}

// ExistExpr is a bare PathQuery used as a filter term: true if the query
// selects at least one node.
type ExistExpr struct {
	*PathQuery
}

// Existence constructs an ExistExpr for q.
func Existence(q *PathQuery) *ExistExpr { return &ExistExpr{PathQuery: q} }

func (e *ExistExpr) testFilter(current, root any) bool {
	return len(e.Select(current, root)) > 0
}

func (e *ExistExpr) writeTo(buf *strings.Builder) {
	buf.WriteString(e.String())
}

// NonExistExpr is a negated PathQuery used as a filter term: true if the
// query selects no nodes.
type NonExistExpr struct {
	*PathQuery
}

// Nonexistence constructs a NonExistExpr for q.
func Nonexistence(q *PathQuery) *NonExistExpr { return &NonExistExpr{PathQuery: q} }

func (ne NonExistExpr) writeTo(buf *strings.Builder) {
	buf.WriteByte('!')
	buf.WriteString(ne.String())
}

func (ne NonExistExpr) testFilter(current, root any) bool {
	return len(ne.Select(current, root)) == 0
}
