// Package parser parses RFC 9535 JSONPath queries into query trees defined
// by package github.com/1gy/jpp/spec. Most callers should use package
// github.com/1gy/jpp instead of this package directly.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/1gy/jpp/registry"
	"github.com/1gy/jpp/spec"
)

// ErrPathParse errors are returned for path parse errors.
var ErrPathParse = errors.New("jsonpath")

// ParseError is returned for every query parse failure. Position is the
// 0-based byte offset into the query string where the failure was
// detected.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s at position %d", ErrPathParse, e.Message, e.Position+1)
}

// Unwrap makes errors.Is(err, ErrPathParse) succeed for any ParseError.
func (e *ParseError) Unwrap() error { return ErrPathParse }

func makeError(tok token, msg string) error {
	return &ParseError{Message: msg, Position: tok.offset}
}

// unexpected builds an error for an unexpected token: the lexer's own
// message for an invalid token, or "unexpected <name>" otherwise.
func unexpected(tok token) error {
	if tok.kind == kindInvalid {
		return makeError(tok, tok.text)
	}
	return makeError(tok, "unexpected "+tok.name())
}

type parser struct {
	lex *scanner
	reg *registry.Registry
}

// Parse parses path, a JSONPath query string, into a spec.PathQuery using
// reg to resolve function extensions. Returns an error wrapping
// ErrPathParse on parse failure.
func Parse(reg *registry.Registry, path string) (*spec.PathQuery, error) {
	lex := newScanner(path)
	tok := lex.next()
	p := parser{lex, reg}

	switch tok.kind {
	case '$':
		q, err := p.parseQuery(true)
		if err != nil {
			return nil, err
		}
		if lex.current() != kindEOF {
			return nil, unexpected(lex.next())
		}
		return q, nil
	case kindEOF:
		return nil, makeError(tok, "unexpected end of input")
	default:
		return nil, unexpected(tok)
	}
}

// parseQuery parses a query expression. The scanner must be positioned just
// past the '$' or '@' before calling.
func (p *parser) parseQuery(root bool) (*spec.PathQuery, error) {
	var segs []*spec.Segment
	lex := p.lex
	for {
		switch {
		case lex.current() == '[':
			lex.next()
			selectors, err := p.parseSelectors()
			if err != nil {
				return nil, err
			}
			segs = append(segs, spec.Child(selectors...))
		case lex.current() == '.':
			lex.next()
			if lex.current() == '.' {
				lex.next()
				seg, err := p.parseDescendant()
				if err != nil {
					return nil, err
				}
				segs = append(segs, seg)
				continue
			}
			sel, err := parseNameOrWildcard(lex)
			if err != nil {
				return nil, err
			}
			segs = append(segs, spec.Child(sel))
		case isBlank(lex.current()):
			switch lex.peekPastBlank() {
			case '.', '[':
				lex.skipBlank()
				continue
			}
			fallthrough
		default:
			return spec.Query(root, segs), nil
		}
	}
}

// parseNameOrWildcard parses a name or '*' wildcard selector.
func parseNameOrWildcard(lex *scanner) (spec.Selector, error) {
	switch tok := lex.next(); tok.kind {
	case kindIdent:
		return spec.Name(tok.text), nil
	case '*':
		return spec.Wildcard(), nil
	default:
		return nil, unexpected(tok)
	}
}

// parseDescendant parses the segment following a "..".
func (p *parser) parseDescendant() (*spec.Segment, error) {
	switch tok := p.lex.next(); tok.kind {
	case '[':
		selectors, err := p.parseSelectors()
		if err != nil {
			return nil, err
		}
		return spec.Descendant(selectors...), nil
	case kindIdent:
		return spec.Descendant(spec.Name(tok.text)), nil
	case '*':
		return spec.Descendant(spec.Wildcard()), nil
	default:
		return nil, unexpected(tok)
	}
}

// makeNumErr converts a strconv.NumError into a ParseError.
func makeNumErr(tok token, err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return makeError(tok, fmt.Sprintf("cannot parse %q, %v", numErr.Num, numErr.Err.Error()))
	}
	return makeError(tok, err.Error())
}

// expectSeparatorOrClose consumes either a ',' (more list items follow) or
// closeKind (the list is finished), skipping blank space first. done
// reports whether closeKind was consumed.
func expectSeparatorOrClose(lex *scanner, closeKind rune) (done bool, err error) {
	switch lex.skipBlank() {
	case ',':
		lex.next()
		return false, nil
	case closeKind:
		lex.next()
		return true, nil
	default:
		return false, unexpected(lex.next())
	}
}

// parseSelectors parses the comma-delimited Selectors of a bracket segment.
// The scanner must be positioned just past the '[' before calling.
func (p *parser) parseSelectors() ([]spec.Selector, error) {
	var selectors []spec.Selector
	lex := p.lex
	for {
		switch tok := lex.next(); tok.kind {
		case '?':
			filter, err := p.parseFilter()
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, filter)
		case '*':
			selectors = append(selectors, spec.Wildcard())
		case kindStr:
			selectors = append(selectors, spec.Name(tok.text))
		case kindInt:
			if lex.skipBlank() == ':' {
				slice, err := parseSlice(lex, tok)
				if err != nil {
					return nil, err
				}
				selectors = append(selectors, slice)
			} else {
				idx, err := parsePathInt(tok)
				if err != nil {
					return nil, err
				}
				selectors = append(selectors, spec.Index(idx))
			}
		case ':':
			slice, err := parseSlice(lex, tok)
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, slice)
		case kindSpace:
			continue
		default:
			return nil, unexpected(tok)
		}

		done, err := expectSeparatorOrClose(lex, ']')
		if err != nil {
			return nil, err
		}
		if done {
			return selectors, nil
		}
	}
}

// parsePathInt parses an integer as used in index values and slice bounds,
// which must fall within [-(2^53)+1, (2^53)-1].
func parsePathInt(tok token) (int64, error) {
	if tok.text == "-0" {
		return 0, makeError(tok, fmt.Sprintf("invalid integer path value %q", tok.text))
	}
	idx, err := strconv.ParseInt(tok.text, 10, 64)
	if err != nil {
		return 0, makeNumErr(tok, err)
	}
	const (
		minVal = -1<<53 + 1
		maxVal = 1<<53 - 1
	)
	if idx > maxVal || idx < minVal {
		return 0, makeError(tok, fmt.Sprintf("cannot parse %q, value out of range", tok.text))
	}
	return idx, nil
}

// parseSlice parses a slice selector, start:end:step. tok is the first
// already-scanned token of the slice.
func parseSlice(lex *scanner, tok token) (spec.SliceSelector, error) {
	var args [3]any

	for i := 0; i < 3; {
		switch tok.kind {
		case ':':
			i++
		case kindInt:
			num, err := parsePathInt(tok)
			if err != nil {
				return spec.SliceSelector{}, err
			}
			args[i] = int(num)
		default:
			return spec.SliceSelector{}, unexpected(tok)
		}

		next := lex.skipBlank()
		if next == ']' || next == ',' {
			return spec.Slice(args[0], args[1], args[2]), nil
		}
		tok = lex.next()
	}

	return spec.SliceSelector{}, unexpected(tok)
}

// parseFilter parses a filter selector, consisting of a single LogicalOr.
func (p *parser) parseFilter() (*spec.FilterSelector, error) {
	lor, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}
	return spec.Filter(lor...), nil
}

// parseSepList parses one or more items from parseItem, separated by two
// consecutive sep runes (e.g. "&&" or "||"), skipping blank space around
// each separator.
func parseSepList[T any](lex *scanner, sep rune, parseItem func() (T, error)) ([]T, error) {
	first, err := parseItem()
	if err != nil {
		return nil, err
	}
	items := []T{first}
	lex.skipBlank()

	for lex.current() == sep {
		lex.next()
		next := lex.next()
		if next.kind != sep {
			return nil, makeError(next, fmt.Sprintf("expected %q but found %v", string(sep), next.name()))
		}
		item, err := parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		lex.skipBlank()
	}
	return items, nil
}

// parseLogicalOrExpr parses one or more LogicalAnd expressions separated by
// "||".
func (p *parser) parseLogicalOrExpr() (spec.LogicalOr, error) {
	ands, err := parseSepList(p.lex, '|', p.parseLogicalAndExpr)
	if err != nil {
		return nil, err
	}
	return spec.LogicalOr(ands), nil
}

// parseLogicalAndExpr parses one or more BasicExpr terms separated by "&&".
func (p *parser) parseLogicalAndExpr() (spec.LogicalAnd, error) {
	exprs, err := parseSepList(p.lex, '&', p.parseBasicExpr)
	if err != nil {
		return nil, err
	}
	return spec.LogicalAnd(exprs), nil
}

func isLiteralKind(k rune) bool {
	switch k {
	case kindStr, kindInt, kindNum, kindFalse, kindTrue, kindNull:
		return true
	default:
		return false
	}
}

func isCompareStart(r rune) bool {
	switch r {
	case '=', '!', '<', '>':
		return true
	default:
		return false
	}
}

// parseBasicExpr parses a single filter term: a negation, a parenthesized
// expression, a comparison, a function call, or a query existence test.
func (p *parser) parseBasicExpr() (spec.BasicExpr, error) {
	lex := p.lex
	lex.skipBlank()
	tok := lex.next()

	switch {
	case tok.kind == '!':
		return p.parseNegatedExpr()
	case tok.kind == '(':
		return p.parseParenExpr()
	case isLiteralKind(tok.kind):
		left, err := parseLiteral(tok)
		if err != nil {
			return nil, err
		}
		return p.parseComparableExpr(left)
	case tok.kind == kindIdent && lex.current() == '(':
		return p.parseFunctionFilterExpr(tok)
	case tok.kind == '@' || tok.kind == '$':
		q, err := p.parseFilterQuery(tok)
		if err != nil {
			return nil, err
		}
		if sing := q.Singular(); sing != nil && isCompareStart(lex.skipBlank()) {
			return p.parseComparableExpr(sing)
		}
		return spec.Existence(q), nil
	}

	return nil, unexpected(tok)
}

// parseNegatedExpr parses the term following a leading '!': either a
// negated parenthesized expression, a negated function call, or a query
// non-existence test.
func (p *parser) parseNegatedExpr() (spec.BasicExpr, error) {
	lex := p.lex
	if lex.skipBlank() == '(' {
		lex.next()
		return p.parseNotParenExpr()
	}

	next := lex.next()
	if next.kind == kindIdent {
		f, err := p.parseFunction(next)
		if err != nil {
			return nil, err
		}
		return spec.NotFuncExpr{FunctionExpr: f}, nil
	}
	return p.parseNotExistsExpr(next)
}

// parseFunctionFilterExpr parses a basic-expr that starts with the
// identifier ident, naming a function. Returns the *spec.FunctionExpr
// directly if its result type is logical, otherwise a comparison against
// the function's result.
func (p *parser) parseFunctionFilterExpr(ident token) (spec.BasicExpr, error) {
	f, err := p.parseFunction(ident)
	if err != nil {
		return nil, err
	}
	if f.ResultType() == spec.FuncLogical {
		return f, nil
	}
	if isCompareStart(p.lex.skipBlank()) {
		return p.parseComparableExpr(f)
	}
	return nil, makeError(p.lex.next(), "missing comparison to function result")
}

// parseNotExistsExpr parses a negated query existence test, !<query>.
func (p *parser) parseNotExistsExpr(tok token) (*spec.NonExistExpr, error) {
	if tok.kind != '@' && tok.kind != '$' {
		return nil, unexpected(tok)
	}
	q, err := p.parseFilterQuery(tok)
	if err != nil {
		return nil, err
	}
	return spec.Nonexistence(q), nil
}

// parseFilterQuery parses a relative (@) or absolute ($) query used within a
// filter expression.
func (p *parser) parseFilterQuery(tok token) (*spec.PathQuery, error) {
	return p.parseQuery(tok.kind == '$')
}

// parseInnerParenExpr parses a LogicalOr expression that must be followed by
// a closing ')'.
func (p *parser) parseInnerParenExpr() (spec.LogicalOr, error) {
	expr, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}

	next := p.lex.next()
	if next.kind != ')' {
		return nil, makeError(next, fmt.Sprintf("expected ')' but found %v", next.name()))
	}
	return expr, nil
}

// parseParenExpr parses a parenthesized filter expression, (...).
func (p *parser) parseParenExpr() (*spec.ParenExpr, error) {
	expr, err := p.parseInnerParenExpr()
	if err != nil {
		return nil, err
	}
	return spec.Paren(expr...), nil
}

// parseNotParenExpr parses a negated parenthesized filter expression,
// !(...).
func (p *parser) parseNotParenExpr() (*spec.NotParenExpr, error) {
	expr, err := p.parseInnerParenExpr()
	if err != nil {
		return nil, err
	}
	return spec.NotParen(expr...), nil
}

// parseFunction parses a call to the function named by tok, looked up in
// p.reg. The scanner must be positioned at the '(' immediately following
// tok.
func (p *parser) parseFunction(tok token) (*spec.FunctionExpr, error) {
	function := p.reg.Get(tok.text)
	if function == nil {
		return nil, makeError(tok, fmt.Sprintf("unknown function %v()", tok.text))
	}

	p.lex.next() // drop '('
	args, err := p.parseFunctionArgs()
	if err != nil {
		return nil, err
	}

	fe, err := spec.NewFunctionExpr(function, args)
	if err != nil {
		return nil, makeError(tok, err.Error())
	}
	return fe, nil
}

// parseFunctionArgs parses the comma-delimited arguments to a function call.
// Each argument is a literal, a filter query (including a singular query), a
// nested function call, or a logical expression.
func (p *parser) parseFunctionArgs() ([]spec.FuncExprArg, error) {
	var args []spec.FuncExprArg
	lex := p.lex
	for {
		switch tok := lex.next(); {
		case isLiteralKind(tok.kind):
			val, err := parseLiteral(tok)
			if err != nil {
				return nil, err
			}
			args = append(args, val)
		case tok.kind == '@' || tok.kind == '$':
			q, err := p.parseFilterQuery(tok)
			if err != nil {
				return nil, err
			}
			args = append(args, q.Expression())
		case tok.kind == kindIdent:
			if lex.skipBlank() != '(' {
				return nil, unexpected(tok)
			}
			f, err := p.parseFunction(tok)
			if err != nil {
				return nil, err
			}
			args = append(args, f)
		case tok.kind == kindSpace:
			continue
		case tok.kind == ')':
			return args, nil
		case tok.kind == '!' || tok.kind == '(':
			lex.pos = tok.offset // let parseBasicExpr see the '!' or '('
			ors, err := p.parseLogicalOrExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, ors)
		default:
			return nil, unexpected(tok)
		}

		done, err := expectSeparatorOrClose(lex, ')')
		if err != nil {
			return nil, err
		}
		if done {
			return args, nil
		}
	}
}

// parseLiteral parses the literal value of tok into a *spec.LiteralArg. tok
// must satisfy isLiteralKind.
func parseLiteral(tok token) (*spec.LiteralArg, error) {
	switch tok.kind {
	case kindStr:
		return spec.Literal(tok.text), nil
	case kindInt:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, makeNumErr(tok, err)
		}
		return spec.Literal(n), nil
	case kindNum:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, makeNumErr(tok, err)
		}
		return spec.Literal(n), nil
	case kindTrue:
		return spec.Literal(true), nil
	case kindFalse:
		return spec.Literal(false), nil
	case kindNull:
		return spec.Literal(nil), nil
	default:
		return nil, unexpected(tok)
	}
}

// parseComparableExpr parses a comparison-expr, a CompOp followed by a
// right-hand CompVal, applied to the already-parsed left operand.
func (p *parser) parseComparableExpr(left spec.CompVal) (*spec.CompExpr, error) {
	lex := p.lex
	lex.skipBlank()

	op, err := parseCompOp(lex)
	if err != nil {
		return nil, err
	}

	lex.skipBlank()
	right, err := p.parseComparableVal(lex.next())
	if err != nil {
		return nil, err
	}

	return spec.Comparison(left, op, right), nil
}

// parseComparableVal parses a CompVal operand: a literal, a singular query,
// or a function call.
func (p *parser) parseComparableVal(tok token) (spec.CompVal, error) {
	switch {
	case isLiteralKind(tok.kind):
		return parseLiteral(tok)
	case tok.kind == '@' || tok.kind == '$':
		return parseSingularQuery(tok, p.lex)
	case tok.kind == kindIdent:
		if p.lex.current() != '(' {
			return nil, unexpected(tok)
		}
		f, err := p.parseFunction(tok)
		if err != nil {
			return nil, err
		}
		if f.ResultType() == spec.FuncLogical {
			return nil, makeError(tok, "cannot compare result of logical function")
		}
		return f, nil
	default:
		return nil, unexpected(tok)
	}
}

// parseCompOp parses a CompOp from lex.
func parseCompOp(lex *scanner) (spec.CompOp, error) {
	tok := lex.next()
	switch tok.kind {
	case '=':
		if lex.current() == '=' {
			lex.next()
			return spec.EqualTo, nil
		}
	case '!':
		if lex.current() == '=' {
			lex.next()
			return spec.NotEqualTo, nil
		}
	case '<':
		if lex.current() == '=' {
			lex.next()
			return spec.LessThanEqualTo, nil
		}
		return spec.LessThan, nil
	case '>':
		if lex.current() == '=' {
			lex.next()
			return spec.GreaterThanEqualTo, nil
		}
		return spec.GreaterThan, nil
	}

	return 0, makeError(tok, "invalid comparison operator")
}

// parseSingularQuery parses a singular-query, made up only of Name and Index
// selectors, starting from the already-scanned '@' or '$' token.
func parseSingularQuery(start token, lex *scanner) (*spec.SingularQueryExpr, error) {
	var selectors []spec.Selector
	for {
		switch lex.current() {
		case '[':
			lex.skipBlank()
			lex.next()
			switch tok := lex.next(); tok.kind {
			case kindStr:
				selectors = append(selectors, spec.Name(tok.text))
			case kindInt:
				idx, err := parsePathInt(tok)
				if err != nil {
					return nil, err
				}
				selectors = append(selectors, spec.Index(idx))
			default:
				return nil, unexpected(tok)
			}
			lex.skipBlank()
			if tok := lex.next(); tok.kind != ']' {
				return nil, unexpected(tok)
			}
		case '.':
			lex.next()
			tok := lex.next()
			if tok.kind != kindIdent {
				return nil, unexpected(tok)
			}
			selectors = append(selectors, spec.Name(tok.text))
		default:
			return spec.SingularQuery(start.kind == '$', selectors), nil
		}
	}
}
