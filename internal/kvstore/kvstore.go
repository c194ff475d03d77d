package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned on a cache/key miss.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the small key-value surface the services need: TTL'd session
// state and an explicitly invalidated cache entry. A ttl of 0 means no
// expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
