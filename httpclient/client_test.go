package httpclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviehub/errs"
	"moviehub/httpclient"
	"moviehub/movie"
	"moviehub/watchlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, code, message string, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]interface{}{"code": code, "message": message}
	if result != nil {
		body["result"] = result
	}
	_ = json.NewEncoder(w).Encode(body)
}

func TestUserClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/1":
			writeEnvelope(w, http.StatusOK, "200", "OK", map[string]interface{}{"id": 1, "name": "Alice", "email": "alice@example.com"})
		case "/api/users/2":
			writeEnvelope(w, http.StatusNotFound, "100404", "user not found", nil)
		default:
			writeEnvelope(w, http.StatusInternalServerError, "100500", "Internal server error", nil)
		}
	}))
	defer srv.Close()
	c := httpclient.NewUserClient(srv.URL + "/")

	t.Run("decodes the result", func(t *testing.T) {
		u, err := c.GetUser(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, watchlist.UserRef{ID: 1, Name: "Alice"}, u)
	})

	t.Run("maps 404 to not found", func(t *testing.T) {
		_, err := c.GetUser(context.Background(), 2)

		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
		assert.Equal(t, "user not found", errs.ErrorMessage(err))
	})

	t.Run("maps 5xx to unavailable", func(t *testing.T) {
		_, err := c.GetUser(context.Background(), 3)

		assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
	})
}

func TestClient_RouteNotFoundIsUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "router envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusNotFound, "100404", "Not Found", nil)
			},
		},
		{
			name: "plain text from a gateway",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "404 page not found", http.StatusNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := httpclient.NewUserClient(srv.URL).GetUser(context.Background(), 1)

			assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
		})
	}
}

func TestUserClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := httpclient.NewUserClient(url).GetUser(context.Background(), 1)

	assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := httpclient.NewMovieClient(srv.URL, httpclient.WithTimeout(20*time.Millisecond))
	start := time.Now()
	_, err := c.GetMovie(context.Background(), 1)

	assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestMovieClient_GetMovie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/movies/1" {
			writeEnvelope(w, http.StatusOK, "200", "OK", map[string]interface{}{
				"id": 1, "title": "Inception", "director": "Christopher Nolan", "year": 2010, "genre": "Sci-Fi", "rating": 8.8,
			})
			return
		}
		writeEnvelope(w, http.StatusNotFound, "100404", "movie not found", nil)
	}))
	defer srv.Close()
	c := httpclient.NewMovieClient(srv.URL)

	m, err := c.GetMovie(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Inception", m.Title)
	require.NotNil(t, m.Rating)
	assert.Equal(t, 8.8, *m.Rating)

	_, err = c.GetMovie(context.Background(), 5)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestMovieClient_BatchGetMovies(t *testing.T) {
	var gotBody map[string][]int64
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/movies/batch", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		writeEnvelope(w, http.StatusOK, "200", "OK", map[string]interface{}{
			"data": []movie.Movie{{ID: 1, Title: "One", Year: 2001}, {ID: 2, Title: "Two", Year: 2002}},
		})
	}))
	defer srv.Close()

	movies, err := httpclient.NewMovieClient(srv.URL).BatchGetMovies(context.Background(), []int64{1, 2, 999})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int64{1, 2, 999}, gotBody["movie_ids"])
	require.Len(t, movies, 2)
	assert.Equal(t, "Two", movies[1].Title)
}

func TestMovieClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code":"200","message":"OK","result":"not an object"}`))
	}))
	defer srv.Close()

	_, err := httpclient.NewMovieClient(srv.URL).BatchGetMovies(context.Background(), []int64{1})

	assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
}
