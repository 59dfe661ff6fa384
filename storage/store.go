// Package storage provides the durable key-value capability behind filter
// persistence. Values are opaque UTF-8 JSON documents; the engine is wired
// against the Store interface so it can run against SQLite, Postgres, Mongo
// or plain memory.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a minimal durable key-value capability.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
