package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"moviehub/movie"
)

// MovieClient resolves movies through the movie service API.
type MovieClient struct {
	client
}

func NewMovieClient(baseURL string, opts ...Option) *MovieClient {
	return &MovieClient{client: newClient("movie service", baseURL, opts...)}
}

func (c *MovieClient) GetMovie(ctx context.Context, id int64) (movie.Movie, error) {
	var m movie.Movie
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/movies/%d", id), nil, &m); err != nil {
		return movie.Movie{}, err
	}
	return m, nil
}

type batchRequest struct {
	MovieIDs []int64 `json:"movie_ids"`
}

func (c *MovieClient) BatchGetMovies(ctx context.Context, ids []int64) ([]movie.Movie, error) {
	var res listResult[movie.Movie]
	if err := c.do(ctx, http.MethodPost, "/api/movies/batch", batchRequest{MovieIDs: ids}, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return []movie.Movie{}, nil
	}
	return res.Data, nil
}
