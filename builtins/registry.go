package builtins

import (
	"fmt"
	"sort"
	"sync"
)

// Func is the Go implementation of an exported function. Arguments have
// already been checked against the declared arity.
type Func func(args []any) (any, error)

// Export is one function a module makes available to `import`.
// Params and Result name atomic types (number, string, boolean, any).
type Export struct {
	Name   string
	Params []string
	Result string
	Fn     Func
}

func (e *Export) Arity() int { return len(e.Params) }

// Module is a named group of exports.
type Module struct {
	Name    string
	Exports []*Export
}

func (m *Module) Lookup(name string) *Export {
	for _, e := range m.Exports {
		if e.Name == name {
			return e
		}
	}
	return nil
}

var (
	mu      sync.RWMutex
	modules = map[string]*Module{}
)

// Register adds or replaces a module.
func Register(m *Module) {
	mu.Lock()
	defer mu.Unlock()
	modules[m.Name] = m
}

// Lookup finds a registered module.
func Lookup(name string) (*Module, error) {
	mu.RLock()
	defer mu.RUnlock()
	if m, ok := modules[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown module '%s'", name)
}

// Names lists registered modules in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(modules))
	for name := range modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
