// Package pathutil reads and writes values inside nested result trees.
//
// A result tree is what a GraphQL client hands back for a query: objects are
// map[string]any, lists are slices. Paths are ordered sequences of object keys;
// they never index into lists.
//
// The package offers two families of writers. SetValueByPath assigns in place
// and must only be used on trees the caller owns. SetIn is copy-on-write: it
// copies the root and every object along the path and leaves the input tree
// untouched, so unrelated branches keep their identity.
package pathutil
