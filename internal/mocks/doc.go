// Package mocks provides in-memory store implementations and stub
// collaborators for unit tests. The store mocks keep their state in maps
// guarded by a mutex and preserve insertion order where the real stores
// guarantee an ordering.
package mocks
