package render

import (
	"fmt"
	"sort"
	"sync"
)

// Store is a concurrency-safe name-to-value table. The renderer registry is
// one of these holding Renderers; the orchestrator keeps its templates in
// another. kind prefixes error messages ("render: renderer") so failures name
// what was missing.
type Store[T any] struct {
	kind    string
	mu      sync.RWMutex
	entries map[string]T
}

// NewStore creates an empty store whose errors identify entries as kind.
func NewStore[T any](kind string) *Store[T] {
	return &Store[T]{kind: kind, entries: make(map[string]T)}
}

// Add inserts a new entry. Empty names and duplicates are errors; wiring
// mistakes should surface at startup.
func (s *Store[T]) Add(name string, value T) error {
	if name == "" {
		return fmt.Errorf("%s name is required", s.kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("%s %q already registered", s.kind, name)
	}
	s.entries[name] = value
	return nil
}

// Put inserts or replaces an entry, skipping the duplicate check.
func (s *Store[T]) Put(name string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = value
}

// Get retrieves an entry by name, with an error naming the miss.
func (s *Store[T]) Get(name string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q not found", s.kind, name)
	}
	return value, nil
}

// Lookup retrieves an entry by name without constructing an error.
func (s *Store[T]) Lookup(name string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[name]
	return value, ok
}

// Has reports whether an entry exists.
func (s *Store[T]) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Names returns the stored names, sorted.
func (s *Store[T]) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry stores renderers by name, keyed by each renderer's Name.
type Registry struct {
	store *Store[Renderer]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{store: NewStore[Renderer]("render: renderer")}
}

// Register adds a renderer under its Name. Registering a duplicate name is an
// error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	return r.store.Add(renderer.Name(), renderer)
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	return r.store.Get(name)
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	return r.store.Has(name)
}

// List returns the registered renderer names, sorted.
func (r *Registry) List() []string {
	return r.store.Names()
}
