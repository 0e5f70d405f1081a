package httpserver

import (
	"net/http"

	"moviehub/errs"
	"moviehub/user"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterUserRoutes(g *echo.Group) {
	g.GET("", s.handleListUsers)
	g.POST("", s.handleAddUser)
	g.GET("/:id", s.handleGetUser)
	g.PUT("/:id", s.handleUpdateUser)
	g.DELETE("/:id", s.handleDeleteUser)
}

func (s *Server) userService() (user.Service, error) {
	if s.UserService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "user service not configured")
	}
	return s.UserService, nil
}

// handleAddUser godoc
// @Summary Create User
// @Description Add a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body UserRequest true "User Data"
// @Success 201 {object} user.User
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/users [post]
func (s *Server) handleAddUser(c echo.Context) error {
	svc, err := s.userService()
	if err != nil {
		return err
	}

	var req UserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := svc.AddUser(c.Request().Context(), req.ToUser())
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusCreated, created)
}

// handleListUsers godoc
// @Summary List Users
// @Description Get all users
// @Tags users
// @Produce json
// @Success 200 {array} user.User
// @Router /api/users [get]
func (s *Server) handleListUsers(c echo.Context) error {
	svc, err := s.userService()
	if err != nil {
		return err
	}

	users, err := svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return writeList(c, http.StatusOK, users)
}

// handleGetUser godoc
// @Summary Get User
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} user.User
// @Failure 404 {object} APIResponse
// @Router /api/users/{id} [get]
func (s *Server) handleGetUser(c echo.Context) error {
	svc, err := s.userService()
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	u, err := svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, u)
}

// handleUpdateUser godoc
// @Summary Replace User
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UserRequest true "User Data"
// @Success 200 {object} user.User
// @Router /api/users/{id} [put]
func (s *Server) handleUpdateUser(c echo.Context) error {
	svc, err := s.userService()
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := svc.UpdateUser(c.Request().Context(), id, req.ToUser())
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, updated)
}

// handleDeleteUser godoc
// @Summary Delete User
// @Tags users
// @Param id path int true "User ID"
// @Success 200
// @Router /api/users/{id} [delete]
func (s *Server) handleDeleteUser(c echo.Context) error {
	svc, err := s.userService()
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := svc.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}
