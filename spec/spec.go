// Package spec provides the RFC 9535 JSONPath abstract syntax tree and its
// evaluation logic for github.com/1gy/jpp. It is of interest to those
// implementing their own parser front end, converting from another
// path-style query language, or writing function extensions for
// github.com/1gy/jpp/registry.
//
// # Stability
//
// The following types and constructors are considered stable:
//
//   - [Index]
//   - [Name]
//   - [SliceSelector] and [Slice]
//   - [WildcardSelector] and [Wildcard]
//   - [FilterSelector]
//   - [Segment], [Child], and [Descendant]
//   - [PathQuery] and [Query]
//   - [LocatedNode] and [NormalizedPath]
//
// The rest of the structs, constructors, and methods in this package remain
// subject to change.
package spec

// MaxDescendDepth bounds recursion into descendant segments ("..") so that
// adversarially deep JSON input cannot overflow the goroutine stack. RFC
// 9535 does not mandate a limit; this one is generous for realistic
// documents and is not configurable.
const MaxDescendDepth = 1024
