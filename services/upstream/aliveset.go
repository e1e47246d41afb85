package upstream

import "sync"

// AliveSet is the process-wide view of which instances answered a recent
// probe cycle or resolution. The prober replaces its contents wholesale each
// cycle; the resolver adds single entries on success (optimistic promotion).
// Readers always get copies, so an in-flight fallback walk is unaffected by
// concurrent mutation. The set may be empty and is never persisted.
type AliveSet struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

func NewAliveSet() *AliveSet {
	return &AliveSet{members: make(map[string]struct{})}
}

// Snapshot returns a copy of the current membership.
func (s *AliveSet) Snapshot() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.members))
	for base := range s.members {
		out[base] = struct{}{}
	}
	return out
}

// Contains reports whether base is currently believed alive.
func (s *AliveSet) Contains(base string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[base]
	return ok
}

// Add promotes a single instance, typically right after it served a
// successful resolution. Keeps the instance hot between probe cycles.
func (s *AliveSet) Add(base string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[base] = struct{}{}
}

// Replace swaps the membership for exactly the given addresses. Stale
// entries do not survive a probe cycle.
func (s *AliveSet) Replace(bases []string) {
	next := make(map[string]struct{}, len(bases))
	for _, base := range bases {
		next[base] = struct{}{}
	}
	s.mu.Lock()
	s.members = next
	s.mu.Unlock()
}

// Len returns the current membership count.
func (s *AliveSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}
