package history

import (
	"context"
	"time"
)

// Entry is a stored value. Shared entries are visible to every user of the
// store; personal entries belong to the key's owner.
type Entry struct {
	Value     string    `json:"value"`
	Shared    bool      `json:"shared"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a small key-value store holding serialized chat logs.
type Store interface {
	// Get returns nil if the key does not exist (not an error).
	Get(ctx context.Context, key string) (*Entry, error)

	// Set overwrites the value stored at key.
	Set(ctx context.Context, key, value string, shared bool) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
