package cache

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps query results by reference.
//
// Results are returned exactly as written, without copying, so a reader that
// patches copy-on-write can rely on identity of unchanged subtrees. Callers
// must treat returned trees as read-only.
type MemoryStore struct {
	mu      sync.RWMutex
	keyer   Keyer
	results map[string]map[string]any
	writes  int
}

// NewMemoryStore creates an empty store. A nil keyer uses DefaultKeyer.
func NewMemoryStore(keyer Keyer) *MemoryStore {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &MemoryStore{
		keyer:   keyer,
		results: make(map[string]map[string]any),
	}
}

// ReadQuery returns the stored result for q, or ErrCacheMiss.
func (s *MemoryStore) ReadQuery(ctx context.Context, q Query) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := s.keyer.Key(q)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.results[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	return data, nil
}

// WriteQuery replaces the stored result for q.
func (s *MemoryStore) WriteQuery(ctx context.Context, q Query, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if data == nil {
		return ErrNilData
	}
	key, err := s.keyer.Key(q)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.results[key] = data
	s.writes++
	s.mu.Unlock()
	return nil
}

// Evict removes the result for q. Idempotent.
func (s *MemoryStore) Evict(q Query) error {
	key, err := s.keyer.Key(q)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.results, key)
	s.mu.Unlock()
	return nil
}

// Writes returns how many successful writes the store has accepted.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

var _ QueryStore = (*MemoryStore)(nil)
