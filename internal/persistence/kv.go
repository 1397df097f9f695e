// Package persistence provides the durable local key-value port the client
// stores persist their state through.
package persistence

import "context"

// KV is the persistence port. Each store writes one opaque payload under its
// own namespace key and reads it back once at startup.
type KV interface {
	// Load returns the value for key and whether it exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)

	// Save writes the value for key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
