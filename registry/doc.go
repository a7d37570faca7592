// Package registry holds the set of available agent implementations keyed by
// name. Registration happens during process startup; after that the registry
// is effectively read-only, so Resolve and List are safe to call from any
// number of concurrent workflow runs.
package registry
