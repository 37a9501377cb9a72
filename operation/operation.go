// Package operation infers what a mutation or subscription did to its data
// from the name of its result field.
//
// A field named createPost adds, deletePost removes, updatePost updates.
// Subscription fields prefixed with "on" (onCreatePost) are classified the
// same way. Names that match no configured prefix are Auto, which the patch
// engine treats as a no-op.
package operation

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/gqlpatch/config"
)

// Kind is the inferred effect of an operation on cached data.
type Kind int

const (
	// Auto asks for inference; if inference fails it means "leave the cache alone".
	Auto Kind = iota
	// Add inserts or re-appends an item.
	Add
	// Update merges an item into its existing entry.
	Update
	// Remove drops an item.
	Remove
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case Add:
		return "add"
	case Update:
		return "update"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name as produced by String. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "add":
		return Add, nil
	case "update":
		return Update, nil
	case "remove":
		return Remove, nil
	default:
		return Auto, fmt.Errorf("operation: unknown kind %q", s)
	}
}

// subscriptionPrefix is accepted in front of any configured prefix.
const subscriptionPrefix = "on"

// Classifier maps field names to kinds using the prefix tables of a config provider.
//
// Contract:
// - Concurrency: safe for concurrent use if the provider is.
// - Errors: Classify never fails; unmatched names yield Auto.
type Classifier struct {
	cfg config.Provider
}

// NewClassifier creates a classifier reading prefixes from cfg on every call.
// A nil cfg uses config.Default().
func NewClassifier(cfg config.Provider) *Classifier {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Classifier{cfg: cfg}
}

// Classify returns the kind for field. Add prefixes are checked first, then
// Remove, then Update; the first table with a matching prefix wins.
func (c *Classifier) Classify(field string) Kind {
	cfg := c.cfg.Current()
	name := strings.ToLower(field)

	tables := []struct {
		prefixes []string
		kind     Kind
	}{
		{cfg.AddPrefixes, Add},
		{cfg.RemovePrefixes, Remove},
		{cfg.UpdatePrefixes, Update},
	}
	for _, table := range tables {
		for _, prefix := range table.prefixes {
			if strings.HasPrefix(name, prefix) || strings.HasPrefix(name, subscriptionPrefix+prefix) {
				return table.kind
			}
		}
	}
	return Auto
}
