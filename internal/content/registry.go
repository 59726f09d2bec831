// Package content resolves a window's opaque content reference into a
// renderable feature. The window core never inspects a Ref beyond passing it
// through; the host application registers a renderer per content kind.
package content

import (
	"fmt"
	"sort"
	"sync"
)

// Ref identifies the feature component a window hosts: a kind tag plus an
// arbitrary property bag. The deck stores and forwards it unchanged.
type Ref struct {
	Kind  string         `json:"kind,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

// UpdateFunc is an opaque state-update callback a feature component may call.
// The window core plumbs it through without interpreting the payload.
type UpdateFunc func(state map[string]any)

// Renderer produces the display body for a content reference.
type Renderer func(ref Ref, update UpdateFunc) string

// Registry maps content kinds to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	update    UpdateFunc
}

// NewRegistry creates an empty registry. The update callback may be nil.
func NewRegistry(update UpdateFunc) *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		update:    update,
	}
}

// Register binds a renderer to a content kind, replacing any previous binding.
func (r *Registry) Register(kind string, render Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[kind] = render
}

// Kinds returns the registered content kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.renderers))
	for k := range r.renderers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Render resolves ref through the registry. Unknown kinds render a
// placeholder rather than failing: content is a display concern, never an
// error condition for the window core.
func (r *Registry) Render(ref Ref) string {
	if ref.Kind == "" {
		return ""
	}

	r.mu.RLock()
	render, ok := r.renderers[ref.Kind]
	update := r.update
	r.mu.RUnlock()

	if !ok {
		return fmt.Sprintf("[%s]", ref.Kind)
	}
	return render(ref, update)
}
