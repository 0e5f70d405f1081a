package movie

import (
	"context"
	"log/slog"
	"sort"
)

type Service interface {
	GetMovie(ctx context.Context, id int64) (Movie, error)
	ListMovies(ctx context.Context, genre string) ([]Movie, error)
	BatchGetMovies(ctx context.Context, ids []int64) ([]Movie, error)
	CreateMovie(ctx context.Context, m Movie) (Movie, error)
	UpdateMovie(ctx context.Context, id int64, m Movie) (Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
}

type Repository interface {
	CreateMovie(ctx context.Context, m Movie) (Movie, error)
	GetMovie(ctx context.Context, id int64) (Movie, error)
	// ListMovies returns movies ordered by id. An empty genre matches all movies.
	ListMovies(ctx context.Context, genre string) ([]Movie, error)
	MoviesByIDs(ctx context.Context, ids []int64) ([]Movie, error)
	UpdateMovie(ctx context.Context, m Movie) (Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
}

// Usecase serves movies from the repository with a cache-aside policy for
// single-id lookups. The repository is the source of truth; cache failures
// are logged and treated as misses.
type Usecase struct {
	r      Repository
	cache  Cache
	logger *slog.Logger
}

func NewUsecase(r Repository, c Cache, logger *slog.Logger) *Usecase {
	if c == nil {
		c = NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{r: r, cache: c, logger: logger}
}

func (uc *Usecase) GetMovie(ctx context.Context, id int64) (Movie, error) {
	if id <= 0 {
		return Movie{}, ErrMovieNotFound
	}

	cached, ok, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.logger.WarnContext(ctx, "movie cache get failed", "movie_id", id, "error", err)
	} else if ok {
		return cached, nil
	}

	m, err := uc.r.GetMovie(ctx, id)
	if err != nil {
		return Movie{}, err
	}

	uc.put(ctx, m)
	return m, nil
}

func (uc *Usecase) ListMovies(ctx context.Context, genre string) ([]Movie, error) {
	return uc.r.ListMovies(ctx, genre)
}

// BatchGetMovies returns the existing subset of ids, one record per id,
// ordered by id. Unknown ids are omitted.
func (uc *Usecase) BatchGetMovies(ctx context.Context, ids []int64) ([]Movie, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return []Movie{}, nil
	}

	movies, err := uc.r.MoviesByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].ID < movies[j].ID })
	return movies, nil
}

func (uc *Usecase) CreateMovie(ctx context.Context, m Movie) (Movie, error) {
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}
	m.ID = 0
	return uc.r.CreateMovie(ctx, m)
}

func (uc *Usecase) UpdateMovie(ctx context.Context, id int64, m Movie) (Movie, error) {
	if id <= 0 {
		return Movie{}, ErrMovieNotFound
	}
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}
	m.ID = id

	updated, err := uc.r.UpdateMovie(ctx, m)
	if err != nil {
		return Movie{}, err
	}

	if !uc.put(ctx, updated) {
		// the old value must not outlive a failed refresh
		uc.invalidate(ctx, id)
	}
	return updated, nil
}

func (uc *Usecase) DeleteMovie(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrMovieNotFound
	}

	if err := uc.r.DeleteMovie(ctx, id); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	return nil
}

func (uc *Usecase) put(ctx context.Context, m Movie) bool {
	if err := uc.cache.Put(ctx, m.ID, m, CacheTTL); err != nil {
		uc.logger.WarnContext(ctx, "movie cache put failed", "movie_id", m.ID, "error", err)
		return false
	}
	return true
}

func (uc *Usecase) invalidate(ctx context.Context, id int64) {
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.WarnContext(ctx, "movie cache invalidate failed", "movie_id", id, "error", err)
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
