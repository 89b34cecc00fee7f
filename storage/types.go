package storage

import (
	"context"
	"errors"
	"regexp"
)

var (
	ErrNilValue   = errors.New("Nil value not allowed")
	ErrNotInteger = errors.New("List member is not an integer")

	ValidKeyName = regexp.MustCompile(`\A[a-zA-Z0-9:._-]+\z`)
)

/*
Store moves int64 values in and out of Redis lists. It knows nothing about
heap structure: a heap is filled from a list one value at a time and spilled
back in priority order.
*/
type Store interface {
	Close() error
	Ping(ctx context.Context) error

	// Load calls fn with each member of the list, head first.
	Load(ctx context.Context, key string, fn func(int64) error) error

	// LoadAll fetches several lists concurrently.
	LoadAll(ctx context.Context, keys []string) (map[string][]int64, error)

	// Append pushes values onto the tail of the list.
	Append(ctx context.Context, key string, values ...int64) error

	Size(ctx context.Context, key string) (int64, error)
	Clear(ctx context.Context, key string) error
}
