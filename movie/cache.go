package movie

import (
	"context"
	"time"
)

// CacheTTL is the lifetime of every cached movie record.
const CacheTTL = time.Hour

// Cache holds serialized movie records keyed by id. A miss is reported as
// (Movie{}, false, nil); errors mean the cache itself could not be reached.
type Cache interface {
	Get(ctx context.Context, id int64) (Movie, bool, error)
	Put(ctx context.Context, id int64, m Movie, ttl time.Duration) error
	Invalidate(ctx context.Context, id int64) error
}

// NoopCache never stores anything. It is used when no cache backend is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, int64) (Movie, bool, error) { return Movie{}, false, nil }

func (NoopCache) Put(context.Context, int64, Movie, time.Duration) error { return nil }

func (NoopCache) Invalidate(context.Context, int64) error { return nil }
