package command

import (
	"sync"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
)

type entry struct {
	key     domain.IntentKey
	binding Binding
}

// Registry is the ordered list of intent bindings. Resolution scans keys in
// registration order and the first key contained in the query wins, no matter
// where in the query it appears.
type Registry struct {
	mu       sync.RWMutex
	entries  []entry
	fallback string
	mode     nlu.MatchMode
}

// NewRegistry constructs an empty registry.
func NewRegistry(fallback string, mode nlu.MatchMode) *Registry {
	if !mode.IsValid() {
		mode = nlu.MatchSubstring
	}
	return &Registry{fallback: fallback, mode: mode}
}

// Register appends a binding. Registering a key again replaces its binding
// and keeps its original position.
func (r *Registry) Register(key domain.IntentKey, binding Binding) {
	if key == "" || key == domain.IntentUnknown {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].key == key {
			r.entries[i].binding = binding
			return
		}
	}
	r.entries = append(r.entries, entry{key: key, binding: binding})
}

// Match returns the first registered key contained in query.
func (r *Registry) Match(query string) (domain.IntentKey, bool) {
	if r == nil {
		return domain.IntentUnknown, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if r.mode.Contains(query, e.key.String()) {
			return e.key, true
		}
	}
	return domain.IntentUnknown, false
}

// Resolve renders the reply for an already normalized query.
func (r *Registry) Resolve(query string, snap Snapshot) string {
	_, text := r.ResolveIntent(query, snap)
	return text
}

// ResolveIntent is Resolve that also reports the matched key, or
// domain.IntentUnknown for the fallback.
func (r *Registry) ResolveIntent(query string, snap Snapshot) (domain.IntentKey, string) {
	if r == nil {
		return domain.IntentUnknown, ""
	}

	key, ok := r.Match(query)
	if !ok {
		return domain.IntentUnknown, r.fallback
	}

	binding, _ := r.binding(key)
	return key, binding.Render(snap)
}

// Keys returns the registered keys in precedence order.
func (r *Registry) Keys() []domain.IntentKey {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]domain.IntentKey, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}

// Count returns the number of registered bindings.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) Fallback() string {
	return r.fallback
}

func (r *Registry) Mode() nlu.MatchMode {
	return r.mode
}

func (r *Registry) binding(key domain.IntentKey) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.key == key {
			return e.binding, true
		}
	}
	return Binding{}, false
}
