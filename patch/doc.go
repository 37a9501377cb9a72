// Package patch applies mutation and subscription payloads to cached query
// results.
//
// An Engine reads the cached result of a target query, finds the collection
// under the query's root field, adds, updates or removes the payload item,
// and writes the new result back. The cached tree is never modified: the
// engine builds a new root and copies only the maps on the modified path.
//
// Patching fails open. Every reason to skip (empty payload, query not
// cached, unparseable query, ...) is reported as an Outcome rather than an
// error, and the cache is left untouched.
package patch
