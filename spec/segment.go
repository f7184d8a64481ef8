package spec

import "strings"

// Segment is a single segment of a JSONPath query, as defined by RFC 9535
// §1.4.2: a non-empty, ordered list of Selectors, applied either to the
// immediate children of a value (Child) or to the value and all of its
// descendants (Descendant).
type Segment struct {
	selectors  []Selector
	descendant bool
}

// Child creates a Segment that applies sel to the immediate children of a
// JSON value.
func Child(sel ...Selector) *Segment {
	return &Segment{selectors: sel}
}

// Descendant creates a Segment that applies sel to a JSON value and,
// recursively, to every array element and object member value reachable
// from it.
func Descendant(sel ...Selector) *Segment {
	return &Segment{selectors: sel, descendant: true}
}

// Selectors returns s's selectors, in query order.
func (s *Segment) Selectors() []Selector {
	return s.selectors
}

// IsDescendant reports whether s is a Descendant segment.
func (s *Segment) IsDescendant() bool {
	return s.descendant
}

// String returns the canonical string representation of s, e.g. [0,1] or
// ..[*].
func (s *Segment) String() string {
	buf := new(strings.Builder)
	if s.descendant {
		buf.WriteString("..")
	}
	buf.WriteByte('[')
	for i, sel := range s.selectors {
		if i > 0 {
			buf.WriteByte(',')
		}
		sel.writeTo(buf)
	}
	buf.WriteByte(']')
	return buf.String()
}

// Select applies each of s's selectors to current in order, concatenating
// their results, then (for a Descendant segment) recurses into current's
// children and appends their results too.
func (s *Segment) Select(current, root any) []any {
	return s.selectAt(current, root, 0)
}

// SelectLocated is the LocatedNode-returning counterpart of Select.
func (s *Segment) SelectLocated(current, root any, parent NormalizedPath) LocatedNodeList {
	return s.selectLocatedAt(current, root, parent, 0)
}

func (s *Segment) selectAt(current, root any, depth int) []any {
	ret := []any{}
	for _, sel := range s.selectors {
		ret = append(ret, sel.Select(current, root)...)
	}
	if s.descendant && depth < MaxDescendDepth {
		ret = append(ret, s.descend(current, root, depth+1)...)
	}
	return ret
}

func (s *Segment) selectLocatedAt(current, root any, parent NormalizedPath, depth int) LocatedNodeList {
	ret := LocatedNodeList{}
	for _, sel := range s.selectors {
		ret = append(ret, sel.SelectLocated(current, root, parent)...)
	}
	if s.descendant && depth < MaxDescendDepth {
		ret = append(ret, s.descendLocated(current, root, parent, depth+1)...)
	}
	return ret
}

// descend recursively applies s to every array element and object member
// value reachable from current, stopping at MaxDescendDepth so adversarial
// input cannot overflow the stack.
func (s *Segment) descend(current, root any, depth int) []any {
	ret := []any{}
	switch val := current.(type) {
	case []any:
		for _, v := range val {
			ret = append(ret, s.selectAt(v, root, depth)...)
		}
	case map[string]any:
		for _, v := range val {
			ret = append(ret, s.selectAt(v, root, depth)...)
		}
	}
	return ret
}

func (s *Segment) descendLocated(current, root any, parent NormalizedPath, depth int) LocatedNodeList {
	ret := LocatedNodeList{}
	switch val := current.(type) {
	case []any:
		for i, v := range val {
			path := append(append(NormalizedPath{}, parent...), Index(i))
			ret = append(ret, s.selectLocatedAt(v, root, path, depth)...)
		}
	case map[string]any:
		for k, v := range val {
			path := append(append(NormalizedPath{}, parent...), Name(k))
			ret = append(ret, s.selectLocatedAt(v, root, path, depth)...)
		}
	}
	return ret
}

// isSingular returns true if s selects at most one value: a Child segment
// with exactly one Name or Index selector.
func (s *Segment) isSingular() bool {
	if s.descendant || len(s.selectors) != 1 {
		return false
	}
	return s.selectors[0].isSingular()
}
