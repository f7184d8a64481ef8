package registry

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"unicode/utf8"

	"github.com/1gy/jpp/spec"
)

// checkLengthArgs checks the argument expressions to length(): exactly one
// expression that results in a FuncValue-compatible value.
func checkLengthArgs(args []spec.FuncExprArg) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument but found %v", len(args))
	}
	if !args[0].ResultType().ConvertsTo(spec.FuncValue) {
		return errors.New("cannot convert argument to ValueType")
	}
	return nil
}

// lengthFunc implements the RFC 9535-standard length function:
//
//   - if the argument is a string, the result is its count of Unicode
//     scalar values
//   - if it is an array, the result is its element count
//   - if it is an object, the result is its member count
//   - otherwise, the result is Nothing (nil)
func lengthFunc(args []spec.PathValue) spec.PathValue {
	v := spec.ValueFrom(args[0])
	if v == nil {
		return nil
	}
	switch val := v.Value().(type) {
	case string:
		return spec.Value(utf8.RuneCountInString(val))
	case []any:
		return spec.Value(len(val))
	case map[string]any:
		return spec.Value(len(val))
	default:
		return nil
	}
}

// checkCountArgs checks the argument expressions to count(): exactly one
// expression that results in a FuncNodes-compatible value.
func checkCountArgs(args []spec.FuncExprArg) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument but found %v", len(args))
	}
	if !args[0].ResultType().ConvertsTo(spec.FuncNodes) {
		return errors.New("cannot convert argument to NodesType")
	}
	return nil
}

// countFunc implements the RFC 9535-standard count function: the number of
// nodes in the argument's node list.
func countFunc(args []spec.PathValue) spec.PathValue {
	return spec.Value(len(spec.NodesFrom(args[0])))
}

// checkValueArgs checks the argument expressions to value(): exactly one
// expression that results in a FuncNodes-compatible value.
func checkValueArgs(args []spec.FuncExprArg) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument but found %v", len(args))
	}
	if !args[0].ResultType().ConvertsTo(spec.FuncNodes) {
		return errors.New("cannot convert argument to NodesType")
	}
	return nil
}

// valueFunc implements the RFC 9535-standard value function: the sole node's
// value if the argument's node list has exactly one node, and Nothing (nil)
// if it has zero or more than one.
func valueFunc(args []spec.PathValue) spec.PathValue {
	nodes := spec.NodesFrom(args[0])
	if len(nodes) == 1 {
		return spec.Value(nodes[0])
	}
	return nil
}

const matchSearchArgCount = 2

// checkMatchArgs checks the argument expressions to match(): exactly two
// expressions that result in FuncValue-compatible values.
func checkMatchArgs(args []spec.FuncExprArg) error {
	if len(args) != matchSearchArgCount {
		return fmt.Errorf("expected 2 arguments but found %v", len(args))
	}
	for i, arg := range args {
		if !arg.ResultType().ConvertsTo(spec.FuncValue) {
			return fmt.Errorf("cannot convert argument %v to ValueType", i+1)
		}
	}
	return nil
}

// matchFunc implements the RFC 9535-standard match function: true if
// args[0] and args[1] are both strings and the whole of args[0] matches the
// I-Regexp pattern args[1], false otherwise (including on a pattern that
// fails to compile).
func (r *Registry) matchFunc(args []spec.PathValue) spec.PathValue {
	v, ok := spec.ValueFrom(args[0]).Value().(string)
	if !ok {
		return spec.LogicalFalse
	}
	pat, ok := spec.ValueFrom(args[1]).Value().(string)
	if !ok {
		return spec.LogicalFalse
	}
	re := r.compiledRegex(`\A(?:` + pat + `)\z`)
	if re == nil {
		return spec.LogicalFalse
	}
	return spec.Logical(re.MatchString(v))
}

// checkSearchArgs checks the argument expressions to search(): exactly two
// expressions that result in FuncValue-compatible values.
func checkSearchArgs(args []spec.FuncExprArg) error {
	if len(args) != matchSearchArgCount {
		return fmt.Errorf("expected 2 arguments but found %v", len(args))
	}
	for i, arg := range args {
		if !arg.ResultType().ConvertsTo(spec.FuncValue) {
			return fmt.Errorf("cannot convert argument %v to ValueType", i+1)
		}
	}
	return nil
}

// searchFunc implements the RFC 9535-standard search function: true if
// args[0] and args[1] are both strings and some substring of args[0]
// matches the I-Regexp pattern args[1], false otherwise (including on a
// pattern that fails to compile).
func (r *Registry) searchFunc(args []spec.PathValue) spec.PathValue {
	v, ok := spec.ValueFrom(args[0]).Value().(string)
	if !ok {
		return spec.LogicalFalse
	}
	pat, ok := spec.ValueFrom(args[1]).Value().(string)
	if !ok {
		return spec.LogicalFalse
	}
	re := r.compiledRegex(pat)
	if re == nil {
		return spec.LogicalFalse
	}
	return spec.Logical(re.MatchString(v))
}

// compileRegex compiles pattern as an I-Regexp (RFC 9485) expression,
// translating it to Go's RE2 syntax. RE2 has no DOTALL flag, so "." is
// parsed with syntax.DotNL (matching line terminators) and then rewritten
// to the RFC 9485-mandated [^\n\r], which excludes them; this requires
// parsing pattern's AST rather than compiling it directly. Returns nil if
// pattern is not a valid regular expression.
func compileRegex(pattern string) *regexp.Regexp {
	ast, err := syntax.Parse(pattern, syntax.Perl|syntax.DotNL)
	if err != nil {
		return nil
	}
	replaceAnyChar(ast)
	re, err := regexp.Compile(ast.String())
	if err != nil {
		return nil
	}
	return re
}

var notLineTerminator, _ = syntax.Parse(`[^\n\r]`, syntax.Perl)

// replaceAnyChar recursively rewrites every OpAnyChar node in ast (produced
// by ".") to match notLineTerminator instead, per RFC 9485's semantics for
// the dot metacharacter.
func replaceAnyChar(ast *syntax.Regexp) {
	if ast.Op == syntax.OpAnyChar {
		*ast = *notLineTerminator
		return
	}
	for _, sub := range ast.Sub {
		replaceAnyChar(sub)
	}
}
