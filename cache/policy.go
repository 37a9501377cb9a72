package cache

import (
	"time"

	"github.com/jonwraymond/gqlpatch/gqldoc"
)

// SkipRule reports whether results of an operation type stay out of the cache.
type SkipRule func(op gqldoc.OperationType) bool

// DefaultSkipRule skips mutations and subscriptions; their results are
// applied to cached queries by the patch engine instead.
func DefaultSkipRule(op gqldoc.OperationType) bool {
	return op != gqldoc.Query
}

// Policy decides which query results are kept and for how long.
//
// The zero Policy caches nothing.
type Policy struct {
	// DefaultTTL applies to writes without their own TTL. Zero disables caching.
	DefaultTTL time.Duration

	// MaxTTL caps every TTL a backend accepts. Zero leaves TTLs uncapped.
	MaxTTL time.Duration

	// CacheOperations admits mutation and subscription results regardless
	// of the skip rule.
	CacheOperations bool
}

// DefaultPolicy keeps query results for a day and never longer than a week,
// which suits an offline-first client cache.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 24 * time.Hour,
		MaxTTL:     7 * 24 * time.Hour,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache reports whether the policy stores anything by default.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL resolves the TTL for one write. A non-positive override
// falls back to DefaultTTL; the result is clamped.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	if override <= 0 {
		return p.Clamp(p.DefaultTTL)
	}
	return p.Clamp(override)
}

// Clamp caps ttl at MaxTTL.
func (p Policy) Clamp(ttl time.Duration) time.Duration {
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		return p.MaxTTL
	}
	return ttl
}

// Admits reports whether a result of op may be cached. skip is consulted
// unless CacheOperations is set; a nil skip uses DefaultSkipRule.
func (p Policy) Admits(op gqldoc.OperationType, skip SkipRule) bool {
	if !p.ShouldCache() {
		return false
	}
	if p.CacheOperations {
		return true
	}
	if skip == nil {
		skip = DefaultSkipRule
	}
	return !skip(op)
}
