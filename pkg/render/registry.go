package render

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds the presentations an intake form can be drawn with, keyed
// by Renderer.Name. The orchestrator resolves the vanilla page or the
// terminal prompts through it.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Renderer{}}
}

// Register makes renderer selectable by its name. A name can only be taken
// once.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: register: nil renderer")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: register: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("render: register %q: name taken", name)
	}
	r.byName[name] = renderer
	return nil
}

func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: no renderer named %q", name)
	}
	return renderer, nil
}

// List reports the registered names in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}

// Default resolves the renderer for a request. An explicit name must be
// registered; an empty name picks the sole renderer and fails when the
// choice is ambiguous or the registry is empty.
func (r *Registry) Default(name string) (Renderer, error) {
	if name != "" {
		return r.Get(name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch len(r.byName) {
	case 0:
		return nil, fmt.Errorf("render: no renderers registered")
	case 1:
		for _, renderer := range r.byName {
			return renderer, nil
		}
	}
	return nil, fmt.Errorf("render: renderer name required (%d registered)", len(r.byName))
}
