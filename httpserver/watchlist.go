package httpserver

import (
	"fmt"
	"net/http"

	"moviehub/errs"
	"moviehub/watchlist"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterWatchlistRoutes(g *echo.Group) {
	g.POST("", s.handleAddEntry)
	g.GET("/user/:user_id", s.handleUserWatchlist)
	g.GET("/user/:user_id/export", s.handleExportWatchlist)
	g.GET("/user/:user_id/movie/:movie_id", s.handleCheckMembership)
	g.DELETE("/user/:user_id/movie/:movie_id", s.handleRemoveByPair)
	g.GET("/movie/:movie_id", s.handleMovieWatchers)
	g.DELETE("/:id", s.handleRemoveEntry)
}

func (s *Server) watchlistService() (watchlist.Service, error) {
	if s.WatchlistService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "watchlist service not configured")
	}
	return s.WatchlistService, nil
}

// handleAddEntry godoc
// @Summary Add To Watchlist
// @Description Verify user and movie, then store the pair
// @Tags watchlist
// @Accept json
// @Produce json
// @Param entry body AddWatchlistEntryRequest true "Entry"
// @Success 201 {object} watchlist.Entry
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/watchlist [post]
func (s *Server) handleAddEntry(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}

	var req AddWatchlistEntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := svc.AddEntry(c.Request().Context(), req.UserID, req.MovieID)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusCreated, e)
}

// handleUserWatchlist godoc
// @Summary Get User Watchlist
// @Tags watchlist
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} watchlist.Watchlist
// @Router /api/watchlist/user/{user_id} [get]
func (s *Server) handleUserWatchlist(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}

	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	wl, err := svc.GetUserWatchlist(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, wl)
}

// handleExportWatchlist godoc
// @Summary Export User Watchlist
// @Description Download the watchlist with full movie records
// @Tags watchlist
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} watchlist.Export
// @Router /api/watchlist/user/{user_id}/export [get]
func (s *Server) handleExportWatchlist(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}

	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	ex, err := svc.ExportUserWatchlist(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="watchlist-user-%d.json"`, userID))
	return writeSuccess(c, http.StatusOK, ex)
}

// handleCheckMembership godoc
// @Summary Check Watchlist Membership
// @Tags watchlist
// @Produce json
// @Param user_id path int true "User ID"
// @Param movie_id path int true "Movie ID"
// @Success 200 {object} watchlist.Membership
// @Router /api/watchlist/user/{user_id}/movie/{movie_id} [get]
func (s *Server) handleCheckMembership(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}

	userID, movieID, err := pairIDs(c)
	if err != nil {
		return err
	}

	m, err := svc.CheckMembership(c.Request().Context(), userID, movieID)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, m)
}

// handleMovieWatchers godoc
// @Summary Get Movie Watchers
// @Tags watchlist
// @Produce json
// @Param movie_id path int true "Movie ID"
// @Success 200 {object} watchlist.Watchers
// @Router /api/watchlist/movie/{movie_id} [get]
func (s *Server) handleMovieWatchers(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}

	movieID, err := pathID(c, "movie_id")
	if err != nil {
		return err
	}

	ws, err := svc.GetMovieWatchers(c.Request().Context(), movieID)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, ws)
}

// handleRemoveEntry godoc
// @Summary Remove Watchlist Entry
// @Tags watchlist
// @Param id path int true "Entry ID"
// @Success 200
// @Failure 404 {object} APIResponse
// @Router /api/watchlist/{id} [delete]
func (s *Server) handleRemoveEntry(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := svc.RemoveEntry(c.Request().Context(), id); err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "removed",
	})
}

// handleRemoveByPair godoc
// @Summary Remove Movie From Watchlist
// @Tags watchlist
// @Param user_id path int true "User ID"
// @Param movie_id path int true "Movie ID"
// @Success 200
// @Failure 404 {object} APIResponse
// @Router /api/watchlist/user/{user_id}/movie/{movie_id} [delete]
func (s *Server) handleRemoveByPair(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}

	userID, movieID, err := pairIDs(c)
	if err != nil {
		return err
	}

	if err := svc.RemoveByPair(c.Request().Context(), userID, movieID); err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "removed",
	})
}

func pairIDs(c echo.Context) (int64, int64, error) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return 0, 0, err
	}
	movieID, err := pathID(c, "movie_id")
	if err != nil {
		return 0, 0, err
	}
	return userID, movieID, nil
}
