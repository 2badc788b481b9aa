package member

import "sync"

// Registry is the secondary in-memory collaborator: every joined member is
// appended here in addition to the session attribute bag. It is process
// local by design and not shared between instances.
type Registry struct {
	mu      sync.Mutex
	members []Member
}

// NewRegistry creates an empty member registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append adds a member to the registry.
func (r *Registry) Append(m Member) {
	r.mu.Lock()
	r.members = append(r.members, m)
	r.mu.Unlock()
}

// All returns a copy of the registered members in insertion order.
func (r *Registry) All() []Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Len returns the number of registered members.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
