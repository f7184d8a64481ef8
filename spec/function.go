package spec

import (
	"errors"
	"fmt"
	"strings"
)

// FuncType classifies both the static result type of a function-argument
// expression and the argument slots a [FuncExtension] declares it accepts,
// per RFC 9535 §2.4.1's type system.
type FuncType uint8

const (
	// FuncLiteral is a literal JSON value (excluding objects and arrays).
	FuncLiteral FuncType = iota + 1
	// FuncSingularQuery is the result of a query that selects at most one
	// node.
	FuncSingularQuery
	// FuncValue is a single JSON value, as returned by a ValueType-producing
	// function.
	FuncValue
	// FuncNodes is a node list, as returned by a filter query or a
	// NodesType-producing function.
	FuncNodes
	// FuncLogical is a boolean, as returned by a logical expression or a
	// LogicalType-producing function.
	FuncLogical
)

// ConvertsTo reports whether a value of type ft may be used where target is
// required. FuncSingularQuery converts to anything because a singular query
// may produce a ValueType, a NodesType of zero or one elements, or (for
// FuncLogical targets) participate in an existence test.
func (ft FuncType) ConvertsTo(target FuncType) bool {
	switch ft {
	case FuncLiteral, FuncValue:
		return target == FuncValue
	case FuncSingularQuery:
		return true
	case FuncNodes:
		return target != FuncValue
	case FuncLogical:
		return target == FuncLogical
	default:
		return false
	}
}

// PathValue is a value produced by evaluating a function-argument expression
// or a [FuncExtension]: a [*ValueType], a [NodesType], or a [LogicalType].
type PathValue interface {
	stringWriter
	// FuncType returns the FuncType that classifies this value.
	FuncType() FuncType
}

// stringOf renders w's canonical string form via its writeTo method.
func stringOf(w interface{ writeTo(buf *strings.Builder) }) string {
	buf := new(strings.Builder)
	w.writeTo(buf)
	return buf.String()
}

// NodesType is a JSONPath node list: the result of a filter query or of a
// function extension that returns a list of nodes.
type NodesType []any

func (NodesType) FuncType() FuncType { return FuncNodes }

// NodesFrom coerces value to a NodesType. Panics if value is of a type that
// cannot occur as a NodesType-typed function argument or result.
func NodesFrom(value PathValue) NodesType {
	switch v := value.(type) {
	case NodesType:
		return v
	case *ValueType:
		return NodesType([]any{v.any})
	case nil:
		return NodesType([]any{})
	default:
		panic(fmt.Sprintf("unexpected argument of type %T", v))
	}
}

func (NodesType) writeTo(buf *strings.Builder) { buf.WriteString("NodesType") }

func (nt NodesType) String() string { return stringOf(nt) }

// LogicalType is the boolean result of a logical expression or a
// LogicalType-producing function.
type LogicalType uint8

const (
	LogicalFalse LogicalType = iota
	LogicalTrue
)

// Bool returns lt as a bool.
func (lt LogicalType) Bool() bool { return lt == LogicalTrue }

func (LogicalType) FuncType() FuncType { return FuncLogical }

// Logical converts b to a LogicalType.
func Logical(b bool) LogicalType {
	if b {
		return LogicalTrue
	}
	return LogicalFalse
}

// LogicalFrom coerces value to a LogicalType per RFC 9535's existence-test
// rules: a LogicalType is returned as is, a NodesType is true if non-empty, a
// bool converts directly, and nil is false. Panics for any other type.
func LogicalFrom(value any) LogicalType {
	switch v := value.(type) {
	case LogicalType:
		return v
	case NodesType:
		return Logical(len(v) > 0)
	case bool:
		return Logical(v)
	case nil:
		return LogicalFalse
	default:
		panic(fmt.Sprintf("unexpected argument of type %T", v))
	}
}

func (lt LogicalType) writeTo(buf *strings.Builder) { buf.WriteString(lt.String()) }

func (lt LogicalType) String() string {
	if lt.Bool() {
		return "true"
	}
	return "false"
}

// ValueType wraps a single JSON value, which is a string, number, bool, nil,
// []any, or map[string]any. A nil *ValueType means "Nothing": no value.
type ValueType struct {
	any
}

// Value constructs a ValueType wrapping val.
func Value(val any) *ValueType { return &ValueType{val} }

// Value returns vt's underlying JSON value, or nil if vt is nil (Nothing).
func (vt *ValueType) Value() any {
	if vt == nil {
		return nil
	}
	return vt.any
}

func (*ValueType) FuncType() FuncType { return FuncValue }

// ValueFrom coerces value to a *ValueType. Panics if value is any other
// concrete type than *ValueType or nil.
func ValueFrom(value PathValue) *ValueType {
	switch v := value.(type) {
	case *ValueType:
		return v
	case nil:
		return nil
	}
	panic(fmt.Sprintf("unexpected argument of type %T", value))
}

// testFilter reports whether vt's value is truthy: null, zero numeric values,
// and false are falsy, everything else (including empty strings, empty
// arrays, and empty objects) is truthy.
func (vt *ValueType) testFilter(_, _ any) bool {
	switch v := vt.any.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case int8:
		return v != int8(0)
	case int16:
		return v != int16(0)
	case int32:
		return v != int32(0)
	case int64:
		return v != int64(0)
	case uint:
		return v != 0
	case uint8:
		return v != uint8(0)
	case uint16:
		return v != uint16(0)
	case uint32:
		return v != uint32(0)
	case uint64:
		return v != uint64(0)
	case float32:
		return v != float32(0)
	case float64:
		return v != float64(0)
	default:
		return true
	}
}

func (vt *ValueType) writeTo(buf *strings.Builder) { buf.WriteString("ValueType") }

func (vt *ValueType) String() string { return stringOf(vt) }

// ErrInvalidArgs wraps the error returned by a FuncExtension's Validate
// function when building a FunctionExpr.
var ErrInvalidArgs = errors.New("function")

// Validator checks a function extension's argument expressions at parse
// time, before the query is ever evaluated.
type Validator func(args []FuncExprArg) error

// Evaluator computes a function extension's result from its evaluated
// argument values.
type Evaluator func(args []PathValue) PathValue

// FuncExtension describes a registered JSONPath function extension: its
// name, declared result type, an argument-checking callback run at parse
// time, and the callback that evaluates it. See
// github.com/1gy/jpp/registry for the builtin RFC 9535 functions and the
// mechanism for registering custom ones.
type FuncExtension struct {
	Name       string
	ResultType FuncType
	Validate   Validator
	Evaluate   Evaluator
}

// Extension constructs a FuncExtension named name with the given result
// type, validator, and evaluator.
func Extension(name string, resultType FuncType, validate Validator, evaluate Evaluator) *FuncExtension {
	return &FuncExtension{Name: name, ResultType: resultType, Validate: validate, Evaluate: evaluate}
}

// FuncExprArg is a function-call argument expression: a literal, a singular
// query, a filter query, a nested function call, or a logical expression.
type FuncExprArg interface {
	stringWriter
	execute(current, root any) PathValue
	// ResultType returns the FuncType that classifies this expression's
	// result.
	ResultType() FuncType
}

// LiteralArg is a literal JSON value used as a function argument.
type LiteralArg struct {
	literal any
}

// Literal constructs a LiteralArg wrapping lit.
func Literal(lit any) *LiteralArg { return &LiteralArg{lit} }

// Value returns la's underlying literal.
func (la *LiteralArg) Value() any { return la.literal }

func (la *LiteralArg) execute(_, _ any) PathValue { return &ValueType{la.literal} }

func (la *LiteralArg) ResultType() FuncType { return FuncLiteral }

func (la *LiteralArg) writeTo(buf *strings.Builder) {
	if la.literal == nil {
		buf.WriteString("null")
	} else {
		fmt.Fprintf(buf, "%#v", la.literal)
	}
}

func (la *LiteralArg) String() string { return stringOf(la) }

func (la *LiteralArg) asValue(_, _ any) PathValue { return &ValueType{la.literal} }

// SingularQueryExpr is a query, relative (@) or absolute ($), made up only
// of Name and Index selectors, guaranteeing it selects at most one value.
type SingularQueryExpr struct {
	relative  bool
	selectors []Selector
}

// SingularQuery constructs a SingularQueryExpr rooted at $ (root true) or @
// (root false).
func SingularQuery(root bool, selectors []Selector) *SingularQueryExpr {
	return &SingularQueryExpr{relative: !root, selectors: selectors}
}

func (sq *SingularQueryExpr) execute(current, root any) PathValue {
	target := root
	if sq.relative {
		target = current
	}
	for _, seg := range sq.selectors {
		res := seg.Select(target, nil)
		if len(res) == 0 {
			return nil
		}
		target = res[0]
	}
	return &ValueType{target}
}

func (*SingularQueryExpr) ResultType() FuncType { return FuncSingularQuery }

func (sq *SingularQueryExpr) asValue(current, root any) PathValue {
	return sq.execute(current, root)
}

func (sq *SingularQueryExpr) writeTo(buf *strings.Builder) {
	if sq.relative {
		buf.WriteByte('@')
	} else {
		buf.WriteByte('$')
	}
	for _, seg := range sq.selectors {
		buf.WriteByte('[')
		seg.writeTo(buf)
		buf.WriteByte(']')
	}
}

func (sq *SingularQueryExpr) String() string { return stringOf(sq) }

// FilterQueryExpr is a (possibly non-singular) PathQuery used as a function
// argument or comparison operand within a filter expression.
type FilterQueryExpr struct {
	*PathQuery
}

// FilterQuery constructs a FilterQueryExpr for q.
func FilterQuery(q *PathQuery) *FilterQueryExpr { return &FilterQueryExpr{q} }

func (fq *FilterQueryExpr) execute(current, root any) PathValue {
	return NodesType(fq.Select(current, root))
}

func (fq *FilterQueryExpr) ResultType() FuncType {
	if fq.isSingular() {
		return FuncSingularQuery
	}
	return FuncNodes
}

func (fq *FilterQueryExpr) writeTo(buf *strings.Builder) {
	buf.WriteString(fq.PathQuery.String())
}

// FunctionExpr is a call to a registered FuncExtension with its resolved
// argument expressions.
type FunctionExpr struct {
	args []FuncExprArg
	fn   *FuncExtension
}

// NewFunctionExpr constructs a FunctionExpr that calls fn with args, after
// running fn.Validate(args). The caller (typically a parser backed by a
// registry.Registry) is responsible for resolving fn by name.
func NewFunctionExpr(fn *FuncExtension, args []FuncExprArg) (*FunctionExpr, error) {
	if err := fn.Validate(args); err != nil {
		return nil, fmt.Errorf("%w %v() %w", ErrInvalidArgs, fn.Name, err)
	}
	return &FunctionExpr{args: args, fn: fn}, nil
}

func (fe *FunctionExpr) writeTo(buf *strings.Builder) {
	buf.WriteString(fe.fn.Name + "(")
	for i, arg := range fe.args {
		arg.writeTo(buf)
		if i < len(fe.args)-1 {
			buf.WriteString(", ")
		}
	}
	buf.WriteByte(')')
}

func (fe *FunctionExpr) String() string { return stringOf(fe) }

func (fe *FunctionExpr) execute(current, root any) PathValue {
	res := make([]PathValue, 0, len(fe.args))
	for _, a := range fe.args {
		res = append(res, a.execute(current, root))
	}
	return fe.fn.Evaluate(res)
}

func (fe *FunctionExpr) ResultType() FuncType { return fe.fn.ResultType }

func (fe *FunctionExpr) asValue(current, root any) PathValue {
	return fe.execute(current, root)
}

// testFilter reports the truthiness of calling fe: a NodesType is truthy if
// non-empty, a *ValueType follows ValueType.testFilter, and a LogicalType
// follows its boolean value.
func (fe *FunctionExpr) testFilter(current, root any) bool {
	switch res := fe.execute(current, root).(type) {
	case NodesType:
		return len(res) > 0
	case *ValueType:
		return res.testFilter(current, root)
	case LogicalType:
		return res.Bool()
	default:
		return false
	}
}

// NotFuncExpr is a negated function call, !func(...).
type NotFuncExpr struct {
	*FunctionExpr
}

func (nf NotFuncExpr) testFilter(current, root any) bool {
	return !nf.FunctionExpr.testFilter(current, root)
}
