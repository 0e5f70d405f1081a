package watchlist

import (
	"time"

	"moviehub/errs"
	"moviehub/movie"
)

var (
	ErrEntryNotFound      = errs.Errorf(errs.ENOTFOUND, "watchlist entry not found")
	ErrAlreadyInWatchlist = errs.Errorf(errs.ECONFLICT, "movie already in watchlist")
	ErrInvalidUserID      = errs.Errorf(errs.EINVALID, "watchlist: invalid user id")
	ErrInvalidMovieID     = errs.Errorf(errs.EINVALID, "watchlist: invalid movie id")
	ErrUserNotFound       = errs.Errorf(errs.EINVALID, "user not found")
	ErrMovieNotFound      = errs.Errorf(errs.EINVALID, "movie not found")
	ErrUserUnavailable    = errs.Errorf(errs.EUNAVAILABLE, "user service unavailable")
	ErrMovieUnavailable   = errs.Errorf(errs.EUNAVAILABLE, "movie service unavailable")
)

// Status describes the outcome of enriching an entry with data owned by
// another service.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotFound    Status = "not_found"
	StatusUnavailable Status = "unavailable"
)

type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

type MovieRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type EnrichedEntry struct {
	Entry
	Movie       *MovieRef `json:"movie"`
	MovieStatus Status    `json:"movie_status"`
}

type Watchlist struct {
	UserID      int64           `json:"user_id"`
	Owner       *UserRef        `json:"owner"`
	OwnerStatus Status          `json:"owner_status"`
	Entries     []EnrichedEntry `json:"entries"`
}

type ExportEntry struct {
	Entry
	Movie       *movie.Movie `json:"movie"`
	MovieStatus Status       `json:"movie_status"`
}

type Export struct {
	UserID     int64         `json:"user_id"`
	ExportedAt time.Time     `json:"exported_at"`
	Entries    []ExportEntry `json:"entries"`
}

type Watcher struct {
	Entry
	User       *UserRef `json:"user"`
	UserStatus Status   `json:"user_status"`
}

type Watchers struct {
	MovieID  int64     `json:"movie_id"`
	Watchers []Watcher `json:"watchers"`
}

type Membership struct {
	InWatchlist bool   `json:"in_watchlist"`
	Entry       *Entry `json:"entry"`
}

type EventType string

const (
	EventEntryAdded   EventType = "watchlist.entry_added"
	EventEntryRemoved EventType = "watchlist.entry_removed"
)

type Event struct {
	Type       EventType `json:"type"`
	Entry      Entry     `json:"entry"`
	OccurredAt time.Time `json:"occurred_at"`
}
