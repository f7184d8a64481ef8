package spec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// CompOp identifies one of the RFC 9535 filter comparison operators.
type CompOp uint8

const (
	EqualTo CompOp = iota + 1
	NotEqualTo
	LessThan
	GreaterThan
	LessThanEqualTo
	GreaterThanEqualTo
)

var compOpText = map[CompOp]string{
	EqualTo:            "==",
	NotEqualTo:         "!=",
	LessThan:           "<",
	GreaterThan:        ">",
	LessThanEqualTo:    "<=",
	GreaterThanEqualTo: ">=",
}

func (op CompOp) String() string {
	if s, ok := compOpText[op]; ok {
		return s
	}
	return "?"
}

// CompVal is an operand of a CompExpr: a literal, a singular query, or a
// function call.
type CompVal interface {
	stringWriter
	asValue(current, root any) PathValue
}

// CompExpr is a BasicExpr that compares two CompVal operands with a CompOp.
type CompExpr struct {
	left  CompVal
	op    CompOp
	right CompVal
}

// Comparison constructs a CompExpr comparing left and right with op.
func Comparison(left CompVal, op CompOp, right CompVal) *CompExpr {
	return &CompExpr{left, op, right}
}

func (ce *CompExpr) writeTo(buf *strings.Builder) {
	ce.left.writeTo(buf)
	buf.WriteByte(' ')
	buf.WriteString(ce.op.String())
	buf.WriteByte(' ')
	ce.right.writeTo(buf)
}

func (ce *CompExpr) String() string {
	buf := new(strings.Builder)
	ce.writeTo(buf)
	return buf.String()
}

// testFilter evaluates ce's operands against current and root and applies
// ce.op. Equality is defined for any pair of operands; ordering operators
// additionally require both operands to resolve to the same comparable
// type.
func (ce *CompExpr) testFilter(current, root any) bool {
	left := ce.left.asValue(current, root)
	right := ce.right.asValue(current, root)

	eq := equalTo(left, right)
	switch ce.op {
	case EqualTo:
		return eq
	case NotEqualTo:
		return !eq
	}

	if !sameType(left, right) {
		return false
	}
	lt := lessThan(left, right)
	switch ce.op {
	case LessThan:
		return lt
	case GreaterThan:
		return lessThan(right, left)
	case LessThanEqualTo:
		return lt || eq
	case GreaterThanEqualTo:
		return lessThan(right, left) || eq
	default:
		panic(fmt.Sprintf("unknown comparison operator %v", ce.op))
	}
}

// equalTo implements RFC 9535's == semantics: Nothing equals only Nothing,
// and any other pair of operands is equal only if both sides are single
// values with equal underlying JSON values.
func equalTo(left, right PathValue) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	lv, lok := left.(*ValueType)
	rv, rok := right.(*ValueType)
	if !lok || !rok {
		return false
	}
	return valueEqualTo(lv.any, rv.any)
}

// lessThan reports whether left orders before right. Only defined when both
// operands are single values.
func lessThan(left, right PathValue) bool {
	lv, lok := left.(*ValueType)
	rv, rok := right.(*ValueType)
	if !lok || !rok {
		return false
	}
	return valueLessThan(lv.any, rv.any)
}

// classifyComparable reduces pv to the value it denotes for a sameType
// check: a singleton NodesType or a ValueType unwraps to its underlying
// JSON value, and a LogicalType (or a boolean JSON value) is reported via
// isBool so that only another boolean-valued operand counts as the same
// type. ok is false for anything else, including a non-singleton NodesType.
func classifyComparable(pv PathValue) (val any, isBool bool, ok bool) {
	switch v := pv.(type) {
	case NodesType:
		if len(v) != 1 {
			return nil, false, false
		}
		if b, isB := v[0].(bool); isB {
			return b, true, true
		}
		return v[0], false, true
	case *ValueType:
		if b, isB := v.any.(bool); isB {
			return b, true, true
		}
		return v.any, false, true
	case LogicalType:
		return v.Bool(), true, true
	default:
		return nil, false, false
	}
}

// sameType reports whether left and right resolve to the same comparable
// JSON type.
func sameType(left, right PathValue) bool {
	lv, lBool, lok := classifyComparable(left)
	rv, rBool, rok := classifyComparable(right)
	if !lok || !rok {
		return false
	}
	if lBool || rBool {
		return lBool && rBool
	}
	return valCompType(lv, rv)
}

// isNumericType reports whether v's dynamic type is one this package treats
// as numeric, regardless of whether its value actually parses as a number.
func isNumericType(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return true
	default:
		return false
	}
}

// valCompType returns true if left and right are both numeric-typed or
// otherwise share the same Go type.
func valCompType(left, right any) bool {
	if isNumericType(left) && isNumericType(right) {
		return true
	}
	return reflect.TypeOf(left) == reflect.TypeOf(right)
}

// toFloat converts val to a float64 via reflection if its kind is numeric,
// reporting ok.
func toFloat(val any) (float64, bool) {
	if n, ok := val.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func valueEqualTo(left, right any) bool {
	if lf, lok := toFloat(left); lok {
		rf, rok := toFloat(right)
		return rok && lf == rf
	}
	return reflect.DeepEqual(left, right)
}

func valueLessThan(left, right any) bool {
	if lf, lok := toFloat(left); lok {
		rf, rok := toFloat(right)
		return rok && lf < rf
	}
	ls, lok := left.(string)
	rs, rok := right.(string)
	return lok && rok && ls < rs
}
