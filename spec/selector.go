package spec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// stringWriter is implemented by AST nodes that can write their canonical
// string form into a shared buffer, so a parent node can render its children
// without intermediate allocations.
type stringWriter interface {
	fmt.Stringer
	writeTo(buf *strings.Builder)
}

// Selector is a single selector within a [Segment]: a Name, Index,
// WildcardSelector, SliceSelector, or FilterSelector.
type Selector interface {
	stringWriter

	// Select returns the values current selects from, given the overall
	// query root for filter and function-extension evaluation.
	Select(current, root any) []any

	// SelectLocated is the LocatedNode-returning counterpart of Select.
	SelectLocated(current, root any, parent NormalizedPath) LocatedNodeList

	// isSingular reports whether this selector can select at most one value.
	isSingular() bool
}

// Name is a member-name selector, e.g. .foo or ['foo'], as defined by RFC
// 9535 §2.3.1.
type Name string

func (Name) isSingular() bool { return true }

// String returns the double-quoted Go representation of n.
func (n Name) String() string { return strconv.Quote(string(n)) }

func (n Name) writeTo(buf *strings.Builder) { buf.WriteString(n.String()) }

// member looks up n within input, reporting ok if input is an object
// carrying that key.
func (n Name) member(input any) (val any, ok bool) {
	obj, isObj := input.(map[string]any)
	if !isObj {
		return nil, false
	}
	val, ok = obj[string(n)]
	return val, ok
}

// Select returns the member value of input named n, or no values if input is
// not an object or has no such member.
func (n Name) Select(input, _ any) []any {
	if val, ok := n.member(input); ok {
		return []any{val}
	}
	return []any{}
}

// SelectLocated is the LocatedNode-returning counterpart of Select.
func (n Name) SelectLocated(input, _ any, parent NormalizedPath) LocatedNodeList {
	if val, ok := n.member(input); ok {
		return LocatedNodeList{newLocatedNode(append(parent, n), val)}
	}
	return LocatedNodeList{}
}

var nameEscapes = map[rune]string{
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\'': `\'`,
	'\\': `\\`,
}

// writeNormalizedTo renders n as a normalized-path member segment per RFC
// 9535 §2.7, escaping control characters, apostrophes, and backslashes.
func (n Name) writeNormalizedTo(buf *strings.Builder) {
	buf.WriteString("['")
	for _, r := range string(n) {
		switch esc, escaped := nameEscapes[r]; {
		case escaped:
			buf.WriteString(esc)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteString("']")
}

// writePointerTo renders n as an RFC 6901 JSON Pointer reference token.
func (n Name) writePointerTo(buf *strings.Builder) {
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(string(n), "~", "~0"), "/", "~1"))
}

// WildcardSelector is the wildcard selector, * or [*], as defined by RFC
// 9535 §2.3.2.
type WildcardSelector struct{}

var wildcard = WildcardSelector{}

// Wildcard returns the WildcardSelector singleton.
func Wildcard() WildcardSelector { return wildcard }

func (WildcardSelector) writeTo(buf *strings.Builder) { buf.WriteByte('*') }
func (WildcardSelector) String() string               { return "*" }
func (WildcardSelector) isSingular() bool             { return false }

// members reports the keys and values of input in iteration order, with ok
// false if input is not an array or object.
func (WildcardSelector) members(input any) (keys []NormalSelector, vals []any, ok bool) {
	switch val := input.(type) {
	case []any:
		keys = make([]NormalSelector, len(val))
		for i := range val {
			keys[i] = Index(i)
		}
		return keys, val, true
	case map[string]any:
		keys = make([]NormalSelector, 0, len(val))
		vals = make([]any, 0, len(val))
		for k, v := range val {
			keys = append(keys, Name(k))
			vals = append(vals, v)
		}
		return keys, vals, true
	default:
		return nil, nil, false
	}
}

// Select returns every array element or object member value of input, in
// array/map-iteration order.
func (w WildcardSelector) Select(input, _ any) []any {
	_, vals, ok := w.members(input)
	if !ok {
		return []any{}
	}
	return vals
}

// SelectLocated is the LocatedNode-returning counterpart of Select.
func (w WildcardSelector) SelectLocated(input, _ any, parent NormalizedPath) LocatedNodeList {
	keys, vals, ok := w.members(input)
	if !ok {
		return LocatedNodeList{}
	}
	res := make(LocatedNodeList, len(vals))
	for i, v := range vals {
		res[i] = newLocatedNode(append(parent, keys[i]), v)
	}
	return res
}

// Index is an array-index selector, e.g. [3] or [-1], as defined by RFC
// 9535 §2.3.3.
type Index int

func (Index) isSingular() bool { return true }

func (i Index) writeTo(buf *strings.Builder) { buf.WriteString(i.String()) }
func (i Index) String() string               { return strconv.FormatInt(int64(i), 10) }

// resolve reports the effective array position i refers to within input, and
// the element found there, counting from the end of the array for a negative
// i. ok is false if input is not an array or i is out of bounds.
func (i Index) resolve(input any) (idx int, val any, ok bool) {
	arr, isArr := input.([]any)
	if !isArr {
		return 0, nil, false
	}
	idx = int(i)
	if idx < 0 {
		if idx += len(arr); idx < 0 {
			return 0, nil, false
		}
	} else if idx >= len(arr) {
		return 0, nil, false
	}
	return idx, arr[idx], true
}

// Select returns the element of input at index i, or no values if input is
// not an array or i is out of bounds.
func (i Index) Select(input, _ any) []any {
	if _, val, ok := i.resolve(input); ok {
		return []any{val}
	}
	return []any{}
}

// SelectLocated is the LocatedNode-returning counterpart of Select.
func (i Index) SelectLocated(input, _ any, parent NormalizedPath) LocatedNodeList {
	if idx, val, ok := i.resolve(input); ok {
		return LocatedNodeList{newLocatedNode(append(parent, Index(idx)), val)}
	}
	return LocatedNodeList{}
}

// writeNormalizedTo renders i as a normalized-path index segment per RFC
// 9535 §2.7.
func (i Index) writeNormalizedTo(buf *strings.Builder) {
	buf.WriteByte('[')
	buf.WriteString(strconv.FormatInt(int64(i), 10))
	buf.WriteByte(']')
}

// writePointerTo renders i as an RFC 6901 JSON Pointer reference token.
func (i Index) writePointerTo(buf *strings.Builder) {
	buf.WriteString(strconv.FormatInt(int64(i), 10))
}

// SliceSelector is an array-slice selector, e.g. [0:10:2], as defined by RFC
// 9535 §2.3.4.
type SliceSelector struct {
	start int
	end   int
	step  int
}

func (SliceSelector) isSingular() bool { return false }

// Slice constructs a SliceSelector from up to three arguments (start, end,
// step), each an int or nil for "omitted". Extra arguments are ignored.
func Slice(args ...any) SliceSelector {
	s := SliceSelector{start: 0, end: math.MaxInt, step: 1}

	setArg := func(name string, dst *int, v any, onOmit func()) {
		switch val := v.(type) {
		case int:
			*dst = val
		case nil:
			onOmit()
		default:
			panic(fmt.Sprintf("%s value passed to Slice is not an integer", name))
		}
	}

	if len(args) > 2 {
		setArg("third", &s.step, args[2], func() {})
	}
	if len(args) > 1 {
		setArg("second", &s.end, args[1], func() {
			if s.step < 0 {
				s.end = math.MinInt
			}
		})
	}
	if len(args) > 0 {
		setArg("first", &s.start, args[0], func() {
			if s.step < 0 {
				s.start = math.MaxInt
			}
		})
	}
	return s
}

func (s SliceSelector) writeTo(buf *strings.Builder) {
	if s.start != 0 && (s.step >= 0 || s.start != math.MaxInt) {
		buf.WriteString(strconv.FormatInt(int64(s.start), 10))
	}
	buf.WriteByte(':')
	if s.end != math.MaxInt && (s.step >= 0 || s.end != math.MinInt) {
		buf.WriteString(strconv.FormatInt(int64(s.end), 10))
	}
	if s.step != 1 {
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(int64(s.step), 10))
	}
}

func (s SliceSelector) String() string {
	buf := new(strings.Builder)
	s.writeTo(buf)
	return buf.String()
}

// indices returns, in traversal order, the positions s selects from an array
// of the given length.
func (s SliceSelector) indices(length int) []int {
	lower, upper := s.Bounds(length)
	var idxs []int
	switch {
	case s.step > 0:
		for i := lower; i < upper; i += s.step {
			idxs = append(idxs, i)
		}
	case s.step < 0:
		for i := upper; lower < i; i += s.step {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// Select returns the elements of input selected by s, in traversal order.
// Returns no values if input is not an array.
func (s SliceSelector) Select(input, _ any) []any {
	val, ok := input.([]any)
	if !ok {
		return []any{}
	}
	idxs := s.indices(len(val))
	res := make([]any, len(idxs))
	for i, idx := range idxs {
		res[i] = val[idx]
	}
	return res
}

// SelectLocated is the LocatedNode-returning counterpart of Select.
func (s SliceSelector) SelectLocated(input, _ any, parent NormalizedPath) LocatedNodeList {
	val, ok := input.([]any)
	if !ok {
		return LocatedNodeList{}
	}
	idxs := s.indices(len(val))
	res := make(LocatedNodeList, len(idxs))
	for i, idx := range idxs {
		res[i] = newLocatedNode(append(parent, Index(idx)), val[idx])
	}
	return res
}

// Start returns the slice's configured start bound.
func (s SliceSelector) Start() int { return s.start }

// End returns the slice's configured end bound.
func (s SliceSelector) End() int { return s.end }

// Step returns the slice's configured step.
func (s SliceSelector) Step() int { return s.step }

// Bounds returns the lower and upper bounds of s against an array of the
// given length, per RFC 9535 §2.3.4.2. For a positive step, lower is
// inclusive and upper exclusive; for a negative step, upper is inclusive and
// lower exclusive.
func (s SliceSelector) Bounds(length int) (int, int) {
	start := normalizeSliceIndex(s.start, length)
	end := normalizeSliceIndex(s.end, length)
	switch {
	case s.step > 0:
		return max(min(start, length), 0), max(min(end, length), 0)
	case s.step < 0:
		return max(min(end, length-1), -1), max(min(start, length-1), -1)
	default:
		return 0, 0
	}
}

func normalizeSliceIndex(i, length int) int {
	if i >= 0 {
		return i
	}
	return length + i
}

// FilterSelector is a filter selector, e.g. ?@.price < 10, as defined by RFC
// 9535 §2.3.5. It wraps a LogicalOr expression tree.
type FilterSelector struct {
	LogicalOr
}

// Filter constructs a FilterSelector whose expression is the logical OR of
// its arguments.
func Filter(expr ...LogicalAnd) *FilterSelector {
	return &FilterSelector{LogicalOr: expr}
}

func (f *FilterSelector) String() string {
	buf := new(strings.Builder)
	f.writeTo(buf)
	return buf.String()
}

func (f *FilterSelector) writeTo(buf *strings.Builder) {
	buf.WriteByte('?')
	f.LogicalOr.writeTo(buf)
}

// matches reports the keys and values of current's elements or members for
// which f's expression holds, in iteration order.
func (f *FilterSelector) matches(current, root any) (keys []NormalSelector, vals []any) {
	switch current := current.(type) {
	case []any:
		for i, v := range current {
			if f.Eval(v, root) {
				keys = append(keys, Index(i))
				vals = append(vals, v)
			}
		}
	case map[string]any:
		for k, v := range current {
			if f.Eval(v, root) {
				keys = append(keys, Name(k))
				vals = append(vals, v)
			}
		}
	}
	return keys, vals
}

// Select returns the array elements or object member values of current for
// which f's expression evaluates to true.
func (f *FilterSelector) Select(current, root any) []any {
	_, vals := f.matches(current, root)
	if vals == nil {
		return []any{}
	}
	return vals
}

// SelectLocated is the LocatedNode-returning counterpart of Select.
func (f *FilterSelector) SelectLocated(current, root any, parent NormalizedPath) LocatedNodeList {
	keys, vals := f.matches(current, root)
	res := make(LocatedNodeList, len(vals))
	for i, v := range vals {
		res[i] = newLocatedNode(append(parent, keys[i]), v)
	}
	return res
}

// Eval reports whether f's expression holds for node, with root available to
// the expression for absolute path references.
func (f *FilterSelector) Eval(node, root any) bool {
	return f.testFilter(node, root)
}

func (f *FilterSelector) isSingular() bool { return false }
