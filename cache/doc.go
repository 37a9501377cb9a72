// Package cache stores GraphQL query results keyed by (document, variables).
//
// It provides the read/write collaborator the patch engine works against:
// MemoryStore keeps result trees by reference, the way a client's normalized
// cache hands out objects, while Store serializes results into any byte-level
// Cache backend (MemoryCache here, SQLite in the sqlitecache subpackage).
// QueryMiddleware fills a store read-through when queries execute.
package cache
