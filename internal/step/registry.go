package step

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps step names to factories. It is built once during CLI wiring
// and read-only afterwards; registration must finish before any pipeline
// runs.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Registering the same name twice is an
// error; names never shadow.
func (r *Registry) Register(name string, f Factory) error {
	if _, ok := r.factories[name]; ok {
		return &DuplicateRegistrationError{Name: name}
	}
	r.factories[name] = f
	return nil
}

// Resolve returns the factory registered under name.
func (r *Registry) Resolve(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownStepError{Name: name, Known: r.Names()}
	}
	return f, nil
}

// Names returns all registered step names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in steps.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Fresh registry, names are distinct; Register cannot fail here.
	_ = r.Register("TBCollector", NewTBCollector)
	_ = r.Register("FXTranslator", NewFXTranslator)
	_ = r.Register("DocAssembler", NewDocAssembler)
	return r
}

// DuplicateRegistrationError reports a step name registered twice.
type DuplicateRegistrationError struct {
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("step %q is already registered", e.Name)
}

// UnknownStepError reports a step name absent from the registry.
type UnknownStepError struct {
	Name  string
	Known []string
}

func (e *UnknownStepError) Error() string {
	known := "(none)"
	if len(e.Known) > 0 {
		known = strings.Join(e.Known, ", ")
	}
	return fmt.Sprintf("step %q is not registered (registered steps: %s)", e.Name, known)
}
