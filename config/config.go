// Package config holds the settings shared by the classifier and the patch
// engine: prefix tables for operation inference and identifying-field rules.
//
// Configuration is passed explicitly. A Config value is itself a Provider;
// Store wraps one behind a lock for programs that adjust settings after
// start-up with merge semantics.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DefaultIDField is the identifying field used when nothing else is set.
const DefaultIDField = "id"

// Sentinel errors for configuration validation.
var (
	ErrEmptyPrefix    = errors.New("config: prefix is empty")
	ErrInvalidPrefix  = errors.New("config: prefix has surrounding whitespace")
	ErrInvalidIDField = errors.New("config: id field is invalid")
)

// IDFieldResolver picks the identifying field for a mutated item. An empty
// result defers to Config.IDField.
type IDFieldResolver func(item map[string]any) string

// Config holds classifier and identifying-field settings.
type Config struct {
	// AddPrefixes, RemovePrefixes and UpdatePrefixes are lower-case name
	// prefixes used to infer the operation kind from a field name.
	AddPrefixes    []string
	RemovePrefixes []string
	UpdatePrefixes []string

	// IDField is the default identifying field.
	IDField string

	// IDFieldResolver overrides IDField per item when it returns a non-empty name.
	IDFieldResolver IDFieldResolver
}

// Provider supplies the configuration in effect.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: callers must not modify slices in the returned Config.
type Provider interface {
	Current() Config
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AddPrefixes: []string{
			"create", "created", "put", "set", "add", "added",
			"new", "insert", "inserted", "duplicate", "import",
		},
		RemovePrefixes: []string{
			"delete", "deleted", "discard", "discarded",
			"erase", "erased", "remove", "removed",
		},
		UpdatePrefixes: []string{
			"update", "updated", "upsert", "upserted", "edit", "edited",
			"modify", "modified", "analyze", "activate",
		},
		IDField: DefaultIDField,
	}
}

// Current returns c, so a plain Config can be used as a Provider.
func (c Config) Current() Config {
	return c
}

// Merge returns c with every set field of partial applied on top.
// Non-nil prefix slices, a non-empty IDField and a non-nil resolver replace
// the corresponding values; unset fields are kept.
func (c Config) Merge(partial Config) Config {
	out := c
	if partial.AddPrefixes != nil {
		out.AddPrefixes = cloneStrings(partial.AddPrefixes)
	}
	if partial.RemovePrefixes != nil {
		out.RemovePrefixes = cloneStrings(partial.RemovePrefixes)
	}
	if partial.UpdatePrefixes != nil {
		out.UpdatePrefixes = cloneStrings(partial.UpdatePrefixes)
	}
	if partial.IDField != "" {
		out.IDField = partial.IDField
	}
	if partial.IDFieldResolver != nil {
		out.IDFieldResolver = partial.IDFieldResolver
	}
	return out
}

// Validate rejects blank or padded prefixes and a padded id field.
func (c Config) Validate() error {
	tables := []struct {
		name     string
		prefixes []string
	}{
		{"add", c.AddPrefixes},
		{"remove", c.RemovePrefixes},
		{"update", c.UpdatePrefixes},
	}
	for _, table := range tables {
		for i, p := range table.prefixes {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: %s prefix %d", ErrEmptyPrefix, table.name, i)
			}
			if strings.TrimSpace(p) != p {
				return fmt.Errorf("%w: %s prefix %q", ErrInvalidPrefix, table.name, p)
			}
		}
	}
	if c.IDField != "" && strings.TrimSpace(c.IDField) != c.IDField {
		return fmt.Errorf("%w: %q", ErrInvalidIDField, c.IDField)
	}
	return nil
}

// IDFieldFor resolves the identifying field for item: the resolver's answer
// when non-empty, then IDField, then DefaultIDField.
func (c Config) IDFieldFor(item map[string]any) string {
	if c.IDFieldResolver != nil {
		if f := c.IDFieldResolver(item); f != "" {
			return f
		}
	}
	if c.IDField != "" {
		return c.IDField
	}
	return DefaultIDField
}

// Store is a mutable Provider with merge-style updates.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

// NewStore creates a store seeded with Default().
func NewStore() *Store {
	return &Store{cfg: Default()}
}

// NewStoreWith creates a store seeded with Default() merged with partial.
func NewStoreWith(partial Config) (*Store, error) {
	s := NewStore()
	if err := s.Set(partial); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns a snapshot of the configuration.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set merges partial into the stored configuration. The store is left
// unchanged when the merged result does not validate.
func (s *Store) Set(partial Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.cfg.Merge(partial)
	if err := merged.Validate(); err != nil {
		return err
	}
	s.cfg = merged
	return nil
}

// Reset restores Default().
func (s *Store) Reset() {
	s.mu.Lock()
	s.cfg = Default()
	s.mu.Unlock()
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

var (
	_ Provider = Config{}
	_ Provider = (*Store)(nil)
)
