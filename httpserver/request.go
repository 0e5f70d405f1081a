package httpserver

import (
	"moviehub/movie"
	"moviehub/user"
)

type MovieRequest struct {
	Title    string   `json:"title" validate:"required,notblank,max=255"`
	Director string   `json:"director" validate:"max=255"`
	Year     int      `json:"year" validate:"required"`
	Genre    string   `json:"genre" validate:"max=100"`
	Rating   *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

func (r MovieRequest) ToMovie() movie.Movie {
	return movie.Movie{
		Title:    r.Title,
		Director: r.Director,
		Year:     r.Year,
		Genre:    r.Genre,
		Rating:   r.Rating,
	}
}

type BatchMoviesRequest struct {
	MovieIDs []int64 `json:"movie_ids"`
}

type UserRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,notblank,max=72"`
}

func (r UserRequest) ToUser() user.User {
	return user.User{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

type AddWatchlistEntryRequest struct {
	UserID  int64 `json:"user_id" validate:"required,gt=0"`
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}
