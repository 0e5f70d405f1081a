package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moviehub/movie"

	goredis "github.com/redis/go-redis/v9"
)

const movieKeyPrefix = "movie:"

// MovieCache stores movies as JSON under movie:{id}.
type MovieCache struct {
	client goredis.Cmdable
}

func NewMovieCache(client goredis.Cmdable) *MovieCache {
	return &MovieCache{client: client}
}

func MovieKey(id int64) string {
	return fmt.Sprintf("%s%d", movieKeyPrefix, id)
}

func (c *MovieCache) Get(ctx context.Context, id int64) (movie.Movie, bool, error) {
	raw, err := c.client.Get(ctx, MovieKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return movie.Movie{}, false, nil
	}
	if err != nil {
		return movie.Movie{}, false, err
	}

	var m movie.Movie
	if err := json.Unmarshal(raw, &m); err != nil {
		return movie.Movie{}, false, fmt.Errorf("decode cached movie %d: %w", id, err)
	}
	return m, true, nil
}

func (c *MovieCache) Put(ctx context.Context, id int64, m movie.Movie, ttl time.Duration) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, MovieKey(id), raw, ttl).Err()
}

func (c *MovieCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, MovieKey(id)).Err()
}
