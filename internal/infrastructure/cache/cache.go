package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache for read-side report payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NoopCache satisfies Cache without storing anything, used when Redis
// is not configured.
type NoopCache struct{}

func (NoopCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (NoopCache) Delete(_ context.Context, _ string) error {
	return nil
}
