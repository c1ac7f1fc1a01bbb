// Package storage provides the key-value persistence collaborator used by the
// registration store. The whole store is saved under a single key as a JSON
// array; backends only need Get and Put.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores the value under key. Values are JSON documents.
	Put(ctx context.Context, key string, value []byte) error
}
