// Package observe provides observability primitives for cache patching.
//
// It is a pure instrumentation library: no patching, no cache access, no I/O
// beyond exporter setup. The patch engine wraps each patch with a Middleware
// built here.
package observe
