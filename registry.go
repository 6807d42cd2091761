package xmsg

import (
	"sort"
	"sync"
)

// typeRegistry is the set of message-type names accepted by Send.
// Registration is idempotent: a duplicate name is a no-op.
type typeRegistry struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{names: make(map[string]struct{})}
}

// add registers name and reports whether it was new.
func (r *typeRegistry) add(name string) (bool, error) {
	if name == "" {
		return false, ErrInvalidTypeName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[name]; ok {
		return false, nil
	}
	r.names[name] = struct{}{}
	return true, nil
}

func (r *typeRegistry) has(name string) bool {
	r.mu.RLock()
	_, ok := r.names[name]
	r.mu.RUnlock()
	return ok
}

// list returns a sorted snapshot of registered names.
func (r *typeRegistry) list() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
