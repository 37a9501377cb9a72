package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Keyer derives cache keys from queries.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for q.
	Key(q Query) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: gql:<hash>
// where hash is the first 16 characters of
// SHA-256(whitespace-normalized document + "\n" + canonical JSON(variables)).
// Nil variables hash like an empty object.
func (k *DefaultKeyer) Key(q Query) (string, error) {
	if strings.TrimSpace(q.Document) == "" {
		return "", fmt.Errorf("%w: empty document", ErrInvalidKey)
	}

	vars := q.Variables
	if vars == nil {
		vars = map[string]any{}
	}
	canonical, err := canonicalize(vars)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize variables: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(normalizeDocument(q.Document)))
	h.Write([]byte{'\n'})
	h.Write(canonical)
	sum := h.Sum(nil)

	return "gql:" + hex.EncodeToString(sum[:8]), nil
}

// normalizeDocument collapses whitespace runs so formatting does not change keys.
func normalizeDocument(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

var _ Keyer = (*DefaultKeyer)(nil)
