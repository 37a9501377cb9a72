package cache

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
)

// MaxKeyLength bounds keys accepted by backends. DefaultKeyer keys are far
// shorter; the bound guards custom keyers.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
	ErrCacheMiss  = errors.New("cache: query is not cached")
	ErrNilData    = errors.New("cache: data is nil")
)

// Cache stores serialized query results under keys produced by a Keyer.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation where the backend does I/O.
// - Errors: Get reports a miss, an expired entry and a backend failure alike as (nil, false).
// - TTL: Set with ttl <= 0 stores nothing; larger TTLs may be clamped by the backend's Policy.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects blank keys, keys longer than MaxKeyLength and keys
// holding control characters.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.IndexFunc(key, unicode.IsControl) >= 0 {
		return ErrInvalidKey
	}
	return nil
}
