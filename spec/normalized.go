package spec

import (
	"cmp"
	"slices"
	"strings"
)

// NormalSelector is a selector that may appear in a NormalizedPath:
// either a [Name] or an [Index]. Implemented by [Name] and [Index].
type NormalSelector interface {
	// writeNormalizedTo writes n to buf formatted as a normalized path
	// element, per https://www.rfc-editor.org/rfc/rfc9535#section-2.7.
	writeNormalizedTo(buf *strings.Builder)
}

// NormalizedPath identifies a single value within a JSON query argument, as
// defined by RFC 9535 §2.7.
type NormalizedPath []NormalSelector

// String returns the canonical string representation of np, e.g. $['a'][0].
func (np NormalizedPath) String() string {
	buf := new(strings.Builder)
	buf.WriteRune('$')
	for _, e := range np {
		e.writeNormalizedTo(buf)
	}
	return buf.String()
}

// MarshalText implements encoding.TextMarshaler.
func (np NormalizedPath) MarshalText() ([]byte, error) {
	return []byte(np.String()), nil
}

// Compare orders np relative to other: indexes sort before names at the
// first point of difference, and a shorter path that is a prefix of a
// longer one sorts first.
func (np NormalizedPath) Compare(other NormalizedPath) int {
	for i := range np {
		if i >= len(other) {
			return 1
		}
		switch v1 := np[i].(type) {
		case Name:
			switch v2 := other[i].(type) {
			case Name:
				if x := cmp.Compare(v1, v2); x != 0 {
					return x
				}
			case Index:
				return 1
			}
		case Index:
			switch v2 := other[i].(type) {
			case Index:
				if x := cmp.Compare(v1, v2); x != 0 {
					return x
				}
			case Name:
				return -1
			}
		}
	}

	if len(other) > len(np) {
		return -1
	}
	return 0
}

// LocatedNode pairs a value selected from a JSON query argument with the
// NormalizedPath that uniquely identifies its location within that
// argument.
type LocatedNode struct {
	// Node is the selected value.
	Node any `json:"node"`

	// Path is the normalized path of Node within the queried document.
	Path NormalizedPath `json:"path"`
}

// newLocatedNode creates a LocatedNode, copying path so later appends to
// the caller's backing array cannot mutate it.
func newLocatedNode(path NormalizedPath, node any) *LocatedNode {
	return &LocatedNode{
		Path: append(make(NormalizedPath, 0, len(path)), path...),
		Node: node,
	}
}

// LocatedNodeList is an ordered list of LocatedNode results, as returned by
// [PathQuery.SelectLocated].
type LocatedNodeList []*LocatedNode

// Nodes returns just the values from l, discarding their paths.
func (l LocatedNodeList) Nodes() []any {
	nodes := make([]any, len(l))
	for i, n := range l {
		nodes[i] = n.Node
	}
	return nodes
}

// Deduplicate removes entries from l that share a NormalizedPath with an
// earlier entry, preserving the order of first occurrence. It modifies and
// returns the (possibly shorter) slice.
func (l LocatedNodeList) Deduplicate() LocatedNodeList {
	if len(l) <= 1 {
		return l
	}

	seen := make(map[string]struct{}, len(l))
	uniq := l[:0]
	for _, n := range l {
		key := n.Path.String()
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			uniq = append(uniq, n)
		}
	}
	clear(l[len(uniq):])
	return uniq
}

// Sort sorts l in place by the Compare order of each entry's NormalizedPath.
func (l LocatedNodeList) Sort() {
	slices.SortFunc(l, func(a, b *LocatedNode) int {
		return a.Path.Compare(b.Path)
	})
}
