// Package store defines the durable key-value boundary the collection engine
// persists through, and a resilience layer that sits in front of any backend.
package store

import "context"

// Store is a durable string key-value store. Writes to one key are atomic;
// there are no multi-key transactions.
type Store interface {
	// Get returns the stored value. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
