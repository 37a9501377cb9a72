package cache

import "context"

// Query identifies one cached result: a GraphQL document and its variables.
// Nil and empty Variables address the same entry.
type Query struct {
	Document  string
	Variables map[string]any
}

// QueryStore reads and writes whole query results.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: ReadQuery returns ErrCacheMiss (possibly wrapped) when nothing is stored.
// - Ownership: WriteQuery replaces the entry; callers must not mutate data afterwards.
type QueryStore interface {
	ReadQuery(ctx context.Context, q Query) (map[string]any, error)
	WriteQuery(ctx context.Context, q Query, data map[string]any) error
}
