package movie

import (
	"strings"

	"moviehub/errs"
)

const (
	MinYear   = 1888
	MaxYear   = 2100
	MinRating = 0.0
	MaxRating = 10.0
)

var (
	ErrMovieNotFound = errs.Errorf(errs.ENOTFOUND, "movie not found")
	ErrInvalidID     = errs.Errorf(errs.EINVALID, "movie: invalid id")
	ErrInvalidTitle  = errs.Errorf(errs.EINVALID, "movie: title is required")
	ErrInvalidYear   = errs.Errorf(errs.EINVALID, "movie: year must be between %d and %d", MinYear, MaxYear)
	ErrInvalidRating = errs.Errorf(errs.EINVALID, "movie: rating must be between %.0f and %.0f", MinRating, MaxRating)
)

type Movie struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Director string   `json:"director"`
	Year     int      `json:"year"`
	Genre    string   `json:"genre"`
	Rating   *float64 `json:"rating"`
}

func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrInvalidTitle
	}

	if m.Year < MinYear || m.Year > MaxYear {
		return ErrInvalidYear
	}

	if m.Rating != nil && (*m.Rating < MinRating || *m.Rating > MaxRating) {
		return ErrInvalidRating
	}

	return nil
}
