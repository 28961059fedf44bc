package object

import "sort"

// Environment maps names to values for the tree-walking evaluator. Lookups
// that miss fall through to the enclosing environment.
type Environment struct {
	store map[string]Object
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: map[string]Object{}}
}

// NewEnclosedEnvironment returns an environment nested inside outer, as used
// for a function call.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	if obj, ok := e.store[name]; ok {
		return obj, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Set binds name in this environment, shadowing any outer binding.
func (e *Environment) Set(name string, value Object) {
	e.store[name] = value
}

// Names returns the names visible from this environment, sorted.
func (e *Environment) Names() []string {
	seen := map[string]bool{}
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
