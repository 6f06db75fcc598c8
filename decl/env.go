package decl

import (
	"fmt"
	"sort"
)

// References to values
type Ref[T any] struct {
	Value T
}

// Env[T] holds the runtime values for identifiers.
// Supports scoping via the 'outer' environment; the global scope is the
// only Env without an outer.
type Env[T any] struct {
	store map[string]*Ref[T]
	outer *Env[T]
}

// NewEnv[T] creates a new environment nested within an outer one.
// If outer is nil then returns a fresh top-level environment.
func NewEnv[T any](outer *Env[T]) *Env[T] {
	s := make(map[string]*Ref[T])
	return &Env[T]{store: s, outer: outer}
}

// Outer returns the enclosing environment (nil for the global scope).
func (e *Env[T]) Outer() *Env[T] {
	return e.outer
}

// GetRef retrieves a binding by name. It checks the current environment
// first, then walks outward through enclosing environments.
func (e *Env[T]) GetRef(name string) *Ref[T] {
	for curr := e; curr != nil; curr = curr.outer {
		if ref, ok := curr.store[name]; ok && ref != nil {
			return ref
		}
	}
	return nil
}

func (e *Env[T]) Get(name string) (out T, found bool) {
	ref := e.GetRef(name)
	if ref != nil {
		out = ref.Value
		found = true
	}
	return
}

// Set creates or shadows a binding in this environment.
func (e *Env[T]) Set(key string, value T) {
	e.store[key] = &Ref[T]{Value: value}
}

// Set multiple key/values at once.
func (e *Env[T]) SetMany(kvpairs map[string]T) {
	for k, v := range kvpairs {
		e.Set(k, v)
	}
}

// Assign updates an existing binding in the nearest environment defining it.
func (e *Env[T]) Assign(name string, value T) bool {
	ref := e.GetRef(name)
	if ref == nil {
		return false
	}
	ref.Value = value
	return true
}

// Ancestor walks exactly distance enclosing links. It returns nil if the
// chain is shorter than that.
func (e *Env[T]) Ancestor(distance int) *Env[T] {
	curr := e
	for i := 0; i < distance && curr != nil; i++ {
		curr = curr.outer
	}
	return curr
}

// GetAt reads name from the environment exactly distance hops out.
func (e *Env[T]) GetAt(distance int, name string) (out T, found bool) {
	target := e.Ancestor(distance)
	if target == nil {
		return
	}
	if ref, ok := target.store[name]; ok && ref != nil {
		return ref.Value, true
	}
	return
}

// AssignAt writes name in the environment exactly distance hops out.
func (e *Env[T]) AssignAt(distance int, name string, value T) bool {
	target := e.Ancestor(distance)
	if target == nil {
		return false
	}
	ref, ok := target.store[name]
	if !ok || ref == nil {
		return false
	}
	ref.Value = value
	return true
}

// Push creates a child scope.
func (e *Env[T]) Push() *Env[T] {
	return NewEnv(e)
}

// Extends our environment by creating a new environment and setting values in it
func (e *Env[T]) Extend(kvpairs map[string]T) *Env[T] {
	out := e.Push()
	out.SetMany(kvpairs)
	return out
}

// String representation for debugging
func (e *Env[T]) String() string {
	return fmt.Sprintf("Env[T]{store: %v, outer: %v}", e.Keys(), e.outer != nil)
}

// Keys returns the sorted keys in this environment (not including outer environments)
func (e *Env[T]) Keys() []string {
	keys := make([]string, 0, len(e.store))
	for k := range e.store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns all key-value pairs in this environment (not including outer environments)
func (e *Env[T]) All() map[string]T {
	result := make(map[string]T)
	for k, ref := range e.store {
		if ref != nil {
			result[k] = ref.Value
		}
	}
	return result
}
