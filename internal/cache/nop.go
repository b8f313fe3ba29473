package cache

import (
	"context"

	"tarha-store/internal/model"
)

// nopCache misses on every read; used when Redis is disabled.
type nopCache struct{}

// NewNopCache creates a cache that never holds anything.
func NewNopCache() CartCache {
	return nopCache{}
}

func (nopCache) Get(context.Context, string) (*model.Cart, error)  { return nil, ErrCacheMiss }
func (nopCache) Set(context.Context, string, *model.Cart) error    { return nil }
func (nopCache) Delete(context.Context, string) error              { return nil }
