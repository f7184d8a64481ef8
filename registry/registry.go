// Package registry provides an RFC 9535 JSONPath function extension
// registry, along with the five RFC 9535-mandated function extensions.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/1gy/jpp/spec"
)

// Registry holds the set of function extensions a parsed query may call,
// plus a cache of regular expressions compiled by match() and search()
// calls within queries built from this Registry.
//
// A Registry is not a package-level global: each Registry owns its own
// function set and regex cache, so two Registries (and the queries parsed
// from them) never interfere with each other.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]*spec.FuncExtension

	regexes sync.Map // pattern string -> *regexp.Regexp (nil entries record failed compiles)
}

// New returns a new Registry loaded with the RFC 9535-mandated function
// extensions: length, count, value, match, and search.
func New() *Registry {
	r := &Registry{
		funcs: map[string]*spec.FuncExtension{},
	}
	r.funcs["length"] = spec.Extension("length", spec.FuncValue, checkLengthArgs, lengthFunc)
	r.funcs["count"] = spec.Extension("count", spec.FuncValue, checkCountArgs, countFunc)
	r.funcs["value"] = spec.Extension("value", spec.FuncValue, checkValueArgs, valueFunc)
	r.funcs["match"] = spec.Extension("match", spec.FuncLogical, checkMatchArgs, r.matchFunc)
	r.funcs["search"] = spec.Extension("search", spec.FuncLogical, checkSearchArgs, r.searchFunc)
	return r
}

// ErrRegister errors are returned by Register.
var ErrRegister = errors.New("register")

// ErrUnregistered identifies a call to a function name that has no registered
// extension. Nothing in this package returns it: Get reports an unknown name
// by returning nil, and package parser reports unknown functions with its own
// positioned error.
var ErrUnregistered = errors.New("unregistered function")

// Register adds a custom function extension to r. Returns ErrRegister if
// validate or evaluate is nil, or if r already has a function named name.
func (r *Registry) Register(name string, resultType spec.FuncType, validate spec.Validator, evaluate spec.Evaluator) error {
	if validate == nil {
		return fmt.Errorf("%w: validator is nil", ErrRegister)
	}
	if evaluate == nil {
		return fmt.Errorf("%w: evaluator is nil", ErrRegister)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.funcs[name]; dup {
		return fmt.Errorf("%w: Register called twice for function %v", ErrRegister, name)
	}

	r.funcs[name] = spec.Extension(name, resultType, validate, evaluate)
	return nil
}

// Get returns the function extension named name, or nil if r has none
// registered by that name.
func (r *Registry) Get(name string) *spec.FuncExtension {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.funcs[name]
}

// compiledRegex returns the compiled, I-Regexp-adjusted regular expression
// for pattern, compiling and caching it on first use. Returns nil if
// pattern fails to compile.
func (r *Registry) compiledRegex(pattern string) *regexp.Regexp {
	if cached, ok := r.regexes.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}
	re := compileRegex(pattern)
	actual, _ := r.regexes.LoadOrStore(pattern, re)
	compiled, _ := actual.(*regexp.Regexp)
	return compiled
}
