package watchlist

import (
	"context"
	"log/slog"
	"time"

	"moviehub/errs"
	"moviehub/movie"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout = 3 * time.Second

	// maxUserLookups bounds the fan-out of point lookups to the user service.
	maxUserLookups = 8
)

type Service interface {
	AddEntry(ctx context.Context, userID, movieID int64) (Entry, error)
	GetUserWatchlist(ctx context.Context, userID int64) (Watchlist, error)
	ExportUserWatchlist(ctx context.Context, userID int64) (Export, error)
	GetMovieWatchers(ctx context.Context, movieID int64) (Watchers, error)
	CheckMembership(ctx context.Context, userID, movieID int64) (Membership, error)
	RemoveEntry(ctx context.Context, id int64) error
	RemoveByPair(ctx context.Context, userID, movieID int64) error
}

type Repository interface {
	// CreateEntry returns ErrAlreadyInWatchlist when the pair already exists.
	CreateEntry(ctx context.Context, userID, movieID int64) (Entry, error)
	EntriesByUser(ctx context.Context, userID int64) ([]Entry, error)
	EntriesByMovie(ctx context.Context, movieID int64) ([]Entry, error)
	EntryByPair(ctx context.Context, userID, movieID int64) (Entry, error)
	DeleteEntry(ctx context.Context, id int64) (Entry, error)
	DeleteByPair(ctx context.Context, userID, movieID int64) (Entry, error)
}

// UserDirectory looks up users owned by the user service. Implementations
// return an errs.ENOTFOUND error when the user does not exist; any other
// error means the lookup could not be completed.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (UserRef, error)
}

// MovieCatalog looks up movies owned by the movie service, with the same
// error contract as UserDirectory. BatchGetMovies omits unknown ids.
type MovieCatalog interface {
	GetMovie(ctx context.Context, id int64) (movie.Movie, error)
	BatchGetMovies(ctx context.Context, ids []int64) ([]movie.Movie, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

type Option func(uc *Usecase)

// WithTimeout bounds every call to the user and movie services.
func WithTimeout(d time.Duration) Option {
	return func(uc *Usecase) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(uc *Usecase) {
		if p != nil {
			uc.publisher = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(uc *Usecase) {
		if l != nil {
			uc.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *Usecase) {
		if now != nil {
			uc.now = now
		}
	}
}

type Usecase struct {
	r         Repository
	users     UserDirectory
	movies    MovieCatalog
	publisher EventPublisher
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewUsecase(r Repository, users UserDirectory, movies MovieCatalog, opts ...Option) *Usecase {
	uc := &Usecase{
		r:         r,
		users:     users,
		movies:    movies,
		publisher: NoopPublisher{},
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// AddEntry verifies the user and the movie concurrently and stores the pair
// only when both exist. A lookup that fails or times out rejects the add.
func (uc *Usecase) AddEntry(ctx context.Context, userID, movieID int64) (Entry, error) {
	if userID <= 0 {
		return Entry{}, ErrInvalidUserID
	}
	if movieID <= 0 {
		return Entry{}, ErrInvalidMovieID
	}

	var g errgroup.Group
	var userErr, movieErr error
	g.Go(func() error {
		userErr = uc.verifyUser(ctx, userID)
		return nil
	})
	g.Go(func() error {
		movieErr = uc.verifyMovie(ctx, movieID)
		return nil
	})
	_ = g.Wait()

	if userErr != nil {
		return Entry{}, userErr
	}
	if movieErr != nil {
		return Entry{}, movieErr
	}

	e, err := uc.r.CreateEntry(ctx, userID, movieID)
	if err != nil {
		return Entry{}, err
	}

	uc.publish(ctx, EventEntryAdded, e)
	return e, nil
}

func (uc *Usecase) GetUserWatchlist(ctx context.Context, userID int64) (Watchlist, error) {
	if userID <= 0 {
		return Watchlist{}, ErrInvalidUserID
	}

	entries, err := uc.r.EntriesByUser(ctx, userID)
	if err != nil {
		return Watchlist{}, err
	}

	var (
		g           errgroup.Group
		owner       *UserRef
		ownerStatus Status
		movies      map[int64]movie.Movie
		movieErr    error
	)
	g.Go(func() error {
		owner, ownerStatus = uc.lookupUser(ctx, userID)
		return nil
	})
	g.Go(func() error {
		movies, movieErr = uc.batchMovies(ctx, entries)
		return nil
	})
	_ = g.Wait()

	wl := Watchlist{
		UserID:      userID,
		Owner:       owner,
		OwnerStatus: ownerStatus,
		Entries:     make([]EnrichedEntry, 0, len(entries)),
	}
	for _, e := range entries {
		ee := EnrichedEntry{Entry: e}
		ee.MovieStatus = movieStatus(movies, movieErr, e.MovieID)
		if ee.MovieStatus == StatusOK {
			m := movies[e.MovieID]
			ee.Movie = &MovieRef{ID: m.ID, Title: m.Title}
		}
		wl.Entries = append(wl.Entries, ee)
	}
	return wl, nil
}

// ExportUserWatchlist embeds the full movie record in every entry using a
// single batch call to the movie service.
func (uc *Usecase) ExportUserWatchlist(ctx context.Context, userID int64) (Export, error) {
	if userID <= 0 {
		return Export{}, ErrInvalidUserID
	}

	entries, err := uc.r.EntriesByUser(ctx, userID)
	if err != nil {
		return Export{}, err
	}

	movies, movieErr := uc.batchMovies(ctx, entries)

	ex := Export{
		UserID:     userID,
		ExportedAt: uc.now().UTC(),
		Entries:    make([]ExportEntry, 0, len(entries)),
	}
	for _, e := range entries {
		xe := ExportEntry{Entry: e}
		xe.MovieStatus = movieStatus(movies, movieErr, e.MovieID)
		if xe.MovieStatus == StatusOK {
			m := movies[e.MovieID]
			xe.Movie = &m
		}
		ex.Entries = append(ex.Entries, xe)
	}
	return ex, nil
}

func (uc *Usecase) GetMovieWatchers(ctx context.Context, movieID int64) (Watchers, error) {
	if movieID <= 0 {
		return Watchers{}, ErrInvalidMovieID
	}

	entries, err := uc.r.EntriesByMovie(ctx, movieID)
	if err != nil {
		return Watchers{}, err
	}

	ids := make([]int64, 0, len(entries))
	index := make(map[int64]int, len(entries))
	for _, e := range entries {
		if _, ok := index[e.UserID]; ok {
			continue
		}
		index[e.UserID] = len(ids)
		ids = append(ids, e.UserID)
	}

	refs := make([]*UserRef, len(ids))
	statuses := make([]Status, len(ids))
	var g errgroup.Group
	g.SetLimit(maxUserLookups)
	for i, id := range ids {
		g.Go(func() error {
			refs[i], statuses[i] = uc.lookupUser(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	ws := Watchers{
		MovieID:  movieID,
		Watchers: make([]Watcher, 0, len(entries)),
	}
	for _, e := range entries {
		i := index[e.UserID]
		ws.Watchers = append(ws.Watchers, Watcher{Entry: e, User: refs[i], UserStatus: statuses[i]})
	}
	return ws, nil
}

func (uc *Usecase) CheckMembership(ctx context.Context, userID, movieID int64) (Membership, error) {
	if userID <= 0 {
		return Membership{}, ErrInvalidUserID
	}
	if movieID <= 0 {
		return Membership{}, ErrInvalidMovieID
	}

	e, err := uc.r.EntryByPair(ctx, userID, movieID)
	if errs.Is(err, errs.ENOTFOUND) {
		return Membership{InWatchlist: false}, nil
	}
	if err != nil {
		return Membership{}, err
	}
	return Membership{InWatchlist: true, Entry: &e}, nil
}

func (uc *Usecase) RemoveEntry(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrEntryNotFound
	}

	e, err := uc.r.DeleteEntry(ctx, id)
	if err != nil {
		return err
	}

	uc.publish(ctx, EventEntryRemoved, e)
	return nil
}

func (uc *Usecase) RemoveByPair(ctx context.Context, userID, movieID int64) error {
	if userID <= 0 || movieID <= 0 {
		return ErrEntryNotFound
	}

	e, err := uc.r.DeleteByPair(ctx, userID, movieID)
	if err != nil {
		return err
	}

	uc.publish(ctx, EventEntryRemoved, e)
	return nil
}

func (uc *Usecase) verifyUser(ctx context.Context, id int64) error {
	_, err := within(ctx, uc.timeout, func(ctx context.Context) (UserRef, error) {
		return uc.users.GetUser(ctx, id)
	})
	switch {
	case err == nil:
		return nil
	case errs.Is(err, errs.ENOTFOUND):
		return ErrUserNotFound
	default:
		uc.logger.WarnContext(ctx, "user verification failed", "user_id", id, "error", err)
		return ErrUserUnavailable
	}
}

func (uc *Usecase) verifyMovie(ctx context.Context, id int64) error {
	_, err := within(ctx, uc.timeout, func(ctx context.Context) (movie.Movie, error) {
		return uc.movies.GetMovie(ctx, id)
	})
	switch {
	case err == nil:
		return nil
	case errs.Is(err, errs.ENOTFOUND):
		return ErrMovieNotFound
	default:
		uc.logger.WarnContext(ctx, "movie verification failed", "movie_id", id, "error", err)
		return ErrMovieUnavailable
	}
}

func (uc *Usecase) lookupUser(ctx context.Context, id int64) (*UserRef, Status) {
	u, err := within(ctx, uc.timeout, func(ctx context.Context) (UserRef, error) {
		return uc.users.GetUser(ctx, id)
	})
	switch {
	case err == nil:
		return &u, StatusOK
	case errs.Is(err, errs.ENOTFOUND):
		return nil, StatusNotFound
	default:
		uc.logger.WarnContext(ctx, "user enrichment unavailable", "user_id", id, "error", err)
		return nil, StatusUnavailable
	}
}

// batchMovies resolves the movies referenced by entries in one call. No call
// is made for an empty list.
func (uc *Usecase) batchMovies(ctx context.Context, entries []Entry) (map[int64]movie.Movie, error) {
	if len(entries) == 0 {
		return map[int64]movie.Movie{}, nil
	}

	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.MovieID]; ok {
			continue
		}
		seen[e.MovieID] = struct{}{}
		ids = append(ids, e.MovieID)
	}

	found, err := within(ctx, uc.timeout, func(ctx context.Context) ([]movie.Movie, error) {
		return uc.movies.BatchGetMovies(ctx, ids)
	})
	if err != nil {
		uc.logger.WarnContext(ctx, "movie enrichment unavailable", "movie_ids", ids, "error", err)
		return nil, err
	}

	movies := make(map[int64]movie.Movie, len(found))
	for _, m := range found {
		movies[m.ID] = m
	}
	return movies, nil
}

func movieStatus(movies map[int64]movie.Movie, err error, id int64) Status {
	if err != nil {
		return StatusUnavailable
	}
	if _, ok := movies[id]; !ok {
		return StatusNotFound
	}
	return StatusOK
}

func (uc *Usecase) publish(ctx context.Context, t EventType, e Entry) {
	ev := Event{Type: t, Entry: e, OccurredAt: uc.now().UTC()}
	if _, err := within(context.WithoutCancel(ctx), uc.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.publisher.Publish(ctx, ev)
	}); err != nil {
		uc.logger.WarnContext(ctx, "watchlist event publish failed", "event", t, "entry_id", e.ID, "error", err)
	}
}

// within runs fn with a deadline and stops waiting once it passes, even if
// fn does not honour cancellation.
func within[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
