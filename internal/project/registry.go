package project

import "sync"

// Registry maps project identifiers to their live coordinators. The first
// access for an id creates a coordinator with the default document; two
// projects never share state.
type Registry struct {
	mu           sync.RWMutex
	coordinators map[string]*Coordinator
}

func NewRegistry() *Registry {
	return &Registry{
		coordinators: make(map[string]*Coordinator),
	}
}

// Get returns the coordinator for id, creating it on first access.
func (r *Registry) Get(id string) *Coordinator {
	r.mu.RLock()
	coord, ok := r.coordinators[id]
	r.mu.RUnlock()
	if ok {
		return coord
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if coord, ok := r.coordinators[id]; ok {
		return coord
	}
	coord = NewCoordinator(id)
	r.coordinators[id] = coord
	return coord
}

// Count reports how many projects have live coordinators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.coordinators)
}

// SessionCount reports joined channels across all projects.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, coord := range r.coordinators {
		total += coord.SessionCount()
	}
	return total
}
