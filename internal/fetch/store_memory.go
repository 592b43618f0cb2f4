package fetch

import (
	"context"
	"sync"

	"vouch/pkg/platform/sentinel"
)

// InMemoryStore implements Store with a process-lifetime map. Growth is
// unbounded by design: keys are canonical request URLs and the working set is
// the set of subjects checked since startup. See DESIGN.md before adding
// eviction; it would change observable fetch behaviour.
type InMemoryStore struct {
	mu     sync.RWMutex
	bodies map[string][]byte
}

// NewInMemoryStore creates an empty in-memory response cache.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bodies: make(map[string][]byte)}
}

func (s *InMemoryStore) Find(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.bodies[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return body, nil
}

func (s *InMemoryStore) Save(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[key] = body
	return nil
}

// Len reports the number of cached responses. Used by metrics and tests.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bodies)
}
