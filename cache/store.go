package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Store serializes query results as JSON into a byte-level Cache.
//
// Numbers are decoded as json.Number so large identifiers survive a round
// trip unchanged.
type Store struct {
	backend Cache
	keyer   Keyer
	policy  Policy
}

// NewStore creates a store over backend. A nil keyer uses DefaultKeyer.
func NewStore(backend Cache, keyer Keyer, policy Policy) (*Store, error) {
	if backend == nil {
		return nil, ErrNilCache
	}
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Store{backend: backend, keyer: keyer, policy: policy}, nil
}

// ReadQuery decodes the stored result for q, or returns ErrCacheMiss.
func (s *Store) ReadQuery(ctx context.Context, q Query) (map[string]any, error) {
	key, err := s.keyer.Key(q)
	if err != nil {
		return nil, err
	}
	raw, ok := s.backend.Get(ctx, key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	return data, nil
}

// WriteQuery encodes data and stores it for the policy's default TTL.
// With caching disabled by the policy the write is dropped.
func (s *Store) WriteQuery(ctx context.Context, q Query, data map[string]any) error {
	if data == nil {
		return ErrNilData
	}
	key, err := s.keyer.Key(q)
	if err != nil {
		return err
	}
	if !s.policy.ShouldCache() {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return s.backend.Set(ctx, key, raw, s.policy.EffectiveTTL(0))
}

// Evict removes the stored result for q.
func (s *Store) Evict(ctx context.Context, q Query) error {
	key, err := s.keyer.Key(q)
	if err != nil {
		return err
	}
	return s.backend.Delete(ctx, key)
}

var _ QueryStore = (*Store)(nil)
