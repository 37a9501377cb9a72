package cache

import (
	"context"
	"errors"

	"github.com/jonwraymond/gqlpatch/gqldoc"
)

// FetchFunc executes a query against the server.
type FetchFunc func(ctx context.Context, q Query) (map[string]any, error)

// QueryMiddleware wraps query execution with read-through caching.
type QueryMiddleware struct {
	store    QueryStore
	parser   *gqldoc.Parser
	policy   Policy
	skipRule SkipRule
}

// NewQueryMiddleware creates a new query middleware.
// If parser is nil a fresh one is used; if skipRule is nil, DefaultSkipRule is used.
func NewQueryMiddleware(store QueryStore, parser *gqldoc.Parser, policy Policy, skipRule SkipRule) *QueryMiddleware {
	if parser == nil {
		parser = gqldoc.NewParser(0)
	}
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &QueryMiddleware{
		store:    store,
		parser:   parser,
		policy:   policy,
		skipRule: skipRule,
	}
}

// Execute runs the query with caching.
// On cache hit, returns the cached result without calling fetch.
// On cache miss, calls fetch and stores the result.
// Errors and nil results are NOT cached.
func (m *QueryMiddleware) Execute(ctx context.Context, q Query, fetch FetchFunc) (map[string]any, error) {
	if !m.policy.ShouldCache() {
		return fetch(ctx, q)
	}

	op, err := m.parser.Operation(q.Document)
	if err != nil {
		// Unparseable - let the server report it
		return fetch(ctx, q)
	}
	if !m.policy.Admits(op, m.skipRule) {
		return fetch(ctx, q)
	}

	cached, err := m.store.ReadQuery(ctx, q)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		// Backend trouble - serve from the server
		return fetch(ctx, q)
	}

	result, err := fetch(ctx, q)
	if err != nil {
		return result, err
	}
	if result != nil {
		_ = m.store.WriteQuery(ctx, q, result)
	}
	return result, nil
}
