package spec

import "strings"

// PathQuery represents a complete RFC 9535 JSONPath expression: a root or
// relative marker followed by zero or more [Segment] values.
type PathQuery struct {
	segments []*Segment
	root     bool
}

// Query creates a PathQuery rooted at $ (root is true) or @ (root is
// false) with the given segments.
func Query(root bool, segments []*Segment) *PathQuery {
	return &PathQuery{root: root, segments: segments}
}

// Segments returns q's segments, in query order.
func (q *PathQuery) Segments() []*Segment {
	return q.segments
}

// IsRoot returns true if q is rooted at $ rather than @.
func (q *PathQuery) IsRoot() bool {
	return q.root
}

// String returns the canonical string representation of q.
func (q *PathQuery) String() string {
	buf := new(strings.Builder)
	if q.root {
		buf.WriteRune('$')
	} else {
		buf.WriteRune('@')
	}
	for _, s := range q.segments {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// Select applies q's segments to current (if q is relative) or root (if q
// is absolute) and returns the resulting node list in selection order,
// duplicates included.
func (q *PathQuery) Select(current, root any) []any {
	res := []any{current}
	if q.root {
		res[0] = root
	}
	for _, seg := range q.segments {
		segRes := []any{}
		for _, v := range res {
			segRes = append(segRes, seg.Select(v, root)...)
		}
		res = segRes
	}
	return res
}

// SelectLocated is the [LocatedNode]-returning counterpart of Select.
func (q *PathQuery) SelectLocated(current, root any) LocatedNodeList {
	start := current
	if q.root {
		start = root
	}
	res := LocatedNodeList{{Node: start, Path: NormalizedPath{}}}
	for _, seg := range q.segments {
		segRes := LocatedNodeList{}
		for _, n := range res {
			segRes = append(segRes, seg.SelectLocated(n.Node, root, n.Path)...)
		}
		res = segRes
	}
	return res
}

// isSingular returns true if q can select at most one node for any input,
// i.e. every segment is a Child segment with a single Name or Index
// selector. Defined by the Selector interface's informal contract.
func (q *PathQuery) isSingular() bool {
	for _, s := range q.segments {
		if !s.isSingular() {
			return false
		}
	}
	return true
}

// Singular returns a SingularQueryExpr equivalent to q if q.isSingular(),
// and nil otherwise.
func (q *PathQuery) Singular() *SingularQueryExpr {
	if !q.isSingular() {
		return nil
	}
	selectors := make([]Selector, len(q.segments))
	for i, s := range q.segments {
		selectors[i] = s.selectors[0]
	}
	return &SingularQueryExpr{selectors: selectors, relative: !q.root}
}

// Expression returns a SingularQueryExpr if q.isSingular(), and otherwise a
// FilterQueryExpr. Used by the parser to build function-argument expressions
// from a parsed path.
func (q *PathQuery) Expression() FuncExprArg {
	if sq := q.Singular(); sq != nil {
		return sq
	}
	return FilterQuery(q)
}
