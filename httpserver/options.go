package httpserver

import (
	"errors"

	"moviehub/movie"
	"moviehub/user"
	"moviehub/watchlist"
)

type Options func(s *Server) error

func WithMovieService(svc movie.Service) Options {
	return func(s *Server) error {
		if svc == nil {
			return errors.New("httpserver: movie service is nil")
		}
		s.MovieService = svc
		return nil
	}
}

func WithUserService(svc user.Service) Options {
	return func(s *Server) error {
		if svc == nil {
			return errors.New("httpserver: user service is nil")
		}
		s.UserService = svc
		return nil
	}
}

func WithWatchlistService(svc watchlist.Service) Options {
	return func(s *Server) error {
		if svc == nil {
			return errors.New("httpserver: watchlist service is nil")
		}
		s.WatchlistService = svc
		return nil
	}
}

// WithInfo adds a field to the service info endpoint.
func WithInfo(key, value string) Options {
	return func(s *Server) error {
		s.Info[key] = value
		return nil
	}
}
