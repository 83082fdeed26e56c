// Package storage defines the persistent key-value contract the rest of
// the engine is built on. Values are opaque JSON; there are no
// transactions and writes are last-write-wins.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
