package memory

import (
	"context"
	"sync"
	"time"

	"moviehub/movie"
)

type entry struct {
	movie   movie.Movie
	expires time.Time
}

// MovieCache is an in-process movie.Cache. Expired entries are dropped lazily
// on read; there is no background sweep.
type MovieCache struct {
	mu      sync.RWMutex
	entries map[int64]entry
	now     func() time.Time
}

func NewMovieCache() *MovieCache {
	return &MovieCache{
		entries: make(map[int64]entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (c *MovieCache) WithClock(now func() time.Time) *MovieCache {
	c.now = now
	return c
}

func (c *MovieCache) Get(_ context.Context, id int64) (movie.Movie, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return movie.Movie{}, false, nil
	}

	if !c.now().Before(e.expires) {
		c.mu.Lock()
		// another writer may have refreshed the entry meanwhile
		if cur, ok := c.entries[id]; ok && !c.now().Before(cur.expires) {
			delete(c.entries, id)
		}
		c.mu.Unlock()
		return movie.Movie{}, false, nil
	}
	return copyMovie(e.movie), true, nil
}

func (c *MovieCache) Put(_ context.Context, id int64, m movie.Movie, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{movie: copyMovie(m), expires: c.now().Add(ttl)}
	return nil
}

func (c *MovieCache) Invalidate(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MovieCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// copyMovie detaches the rating pointer so callers cannot mutate cached state.
func copyMovie(m movie.Movie) movie.Movie {
	if m.Rating != nil {
		r := *m.Rating
		m.Rating = &r
	}
	return m
}
