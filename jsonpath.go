// Package jsonpath implements RFC 9535 JSONPath query expressions: parsing,
// compiling, and evaluating queries against unmarshaled JSON values
// (map[string]any, []any, and JSON scalar types).
package jsonpath

import (
	"github.com/1gy/jpp/parser"
	"github.com/1gy/jpp/registry"
	"github.com/1gy/jpp/spec"
)

// ErrPathParse errors are returned for path parse errors.
var ErrPathParse = parser.ErrPathParse

// Error is returned for every query parse failure. errors.Is(err,
// ErrPathParse) succeeds for any Error, regardless of which specific parse
// failure occurred.
type Error = parser.ParseError

// Path represents a parsed RFC 9535 JSONPath query, ready to be evaluated
// against any number of JSON values.
type Path struct {
	q *spec.PathQuery
}

// New wraps an already-built spec.PathQuery as a Path. Most callers should
// use Parse instead.
func New(q *spec.PathQuery) *Path {
	return &Path{q: q}
}

// Option configures a Parse call.
type Option func(*config)

type config struct {
	reg *registry.Registry
}

// WithRegistry parses the query's function calls against reg instead of a
// fresh registry.New(). Use this to make custom function extensions
// available to the query, or to share a single Registry's compiled-regex
// cache across many Parse calls.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) { c.reg = reg }
}

// Parse parses path into a Path. Returns an error wrapping ErrPathParse on
// invalid input.
func Parse(path string, opts ...Option) (*Path, error) {
	cfg := config{reg: registry.New()}
	for _, opt := range opts {
		opt(&cfg)
	}

	q, err := parser.Parse(cfg.reg, path)
	if err != nil {
		return nil, err
	}
	return &Path{q: q}, nil
}

// ParseWithRegistry parses path into a Path, resolving its function calls
// against reg.
func ParseWithRegistry(reg *registry.Registry, path string) (*Path, error) {
	return Parse(path, WithRegistry(reg))
}

// MustParse is like Parse but panics instead of returning an error.
func MustParse(path string, opts ...Option) *Path {
	p, err := Parse(path, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether path is a syntactically valid JSONPath query.
func Valid(path string) bool {
	_, err := Parse(path)
	return err == nil
}

// Query parses path and immediately selects from input, for one-shot
// queries that don't need to reuse the compiled Path.
func Query(path string, input any) ([]any, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return p.Select(input), nil
}

// String returns the canonical string representation of p.
func (p *Path) String() string {
	return p.q.String()
}

// Query returns p's underlying parsed query tree.
func (p *Path) Query() *spec.PathQuery {
	return p.q
}

// Select evaluates p against input, rooted at input, and returns the
// selected values in selection order. Duplicate references to the same
// value (e.g. via overlapping selectors) are included once per selection.
func (p *Path) Select(input any) []any {
	return p.q.Select(nil, input)
}

// SelectLocated is the normalized-path-returning counterpart of Select: each
// result pairs a selected node with the normalized path RFC 9535 §2.7 uses
// to describe its location in input.
func (p *Path) SelectLocated(input any) spec.LocatedNodeList {
	return p.q.SelectLocated(nil, input)
}
