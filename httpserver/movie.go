package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"moviehub/errs"
	"moviehub/movie"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.POST("", s.handleCreateMovie)
	g.GET("", s.handleListMovies)
	g.POST("/batch", s.handleBatchMovies)
	g.GET("/:id", s.handleGetMovie)
	g.PUT("/:id", s.handleUpdateMovie)
	g.DELETE("/:id", s.handleDeleteMovie)
}

func (s *Server) movieService() (movie.Service, error) {
	if s.MovieService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return s.MovieService, nil
}

// handleCreateMovie godoc
// @Summary Create Movie
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body MovieRequest true "Movie Data"
// @Success 201 {object} movie.Movie
// @Failure 400 {object} APIResponse
// @Router /api/movies [post]
func (s *Server) handleCreateMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	var req MovieRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := svc.CreateMovie(c.Request().Context(), req.ToMovie())
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusCreated, created)
}

// handleListMovies godoc
// @Summary List Movies
// @Description List movies, optionally restricted to an exact genre
// @Tags movies
// @Produce json
// @Param genre query string false "Exact genre"
// @Success 200 {array} movie.Movie
// @Router /api/movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	movies, err := svc.ListMovies(c.Request().Context(), c.QueryParam("genre"))
	if err != nil {
		return err
	}
	return writeList(c, http.StatusOK, movies)
}

// handleBatchMovies godoc
// @Summary Batch Get Movies
// @Description Return the movies that exist among the requested ids
// @Tags movies
// @Accept json
// @Produce json
// @Param ids body BatchMoviesRequest true "Movie ids"
// @Success 200 {array} movie.Movie
// @Router /api/movies/batch [post]
func (s *Server) handleBatchMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	var req BatchMoviesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	movies, err := svc.BatchGetMovies(c.Request().Context(), req.MovieIDs)
	if err != nil {
		return err
	}
	return writeList(c, http.StatusOK, movies)
}

// handleGetMovie godoc
// @Summary Get Movie
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} movie.Movie
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [get]
func (s *Server) handleGetMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	m, err := svc.GetMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, m)
}

// handleUpdateMovie godoc
// @Summary Replace Movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path int true "Movie ID"
// @Param movie body MovieRequest true "Movie Data"
// @Success 200 {object} movie.Movie
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [put]
func (s *Server) handleUpdateMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req MovieRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := svc.UpdateMovie(c.Request().Context(), id, req.ToMovie())
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, updated)
}

// handleDeleteMovie godoc
// @Summary Delete Movie
// @Tags movies
// @Param id path int true "Movie ID"
// @Success 200
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [delete]
func (s *Server) handleDeleteMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := svc.DeleteMovie(c.Request().Context(), id); err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "invalid %s", name)
	}
	return id, nil
}
