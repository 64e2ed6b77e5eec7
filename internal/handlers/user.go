package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/services"
)

// UserHandler serves profile pages, profile edits and user search.
type UserHandler struct {
	profiles *services.ProfileService
}

func NewUserHandler(profiles *services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// RegisterPublicRoutes registers routes that accept anonymous callers.
// optionalAuth resolves the caller when a token is present.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group, optionalAuth echo.MiddlewareFunc) {
	g.GET("/profiles/:username", h.GetProfile, optionalAuth)
}

func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/search", h.SearchUsers)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	view, err := h.profiles.GetProfile(c.Request().Context(), middleware.IdentityFrom(c), c.Param("username"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, view)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	req := new(models.UpdateProfileRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	user, err := h.profiles.UpdateProfile(c.Request().Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

// SearchUsers matches ?q= against usernames and display names.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, err := h.profiles.SearchUsers(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, users)
}
