package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lumina/backend/internal/actions"
	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/services"
)

// FollowHandler handles follow relationships.
type FollowHandler struct {
	actions *actions.Actions
	graph   *services.GraphService
}

func NewFollowHandler(a *actions.Actions, graph *services.GraphService) *FollowHandler {
	return &FollowHandler{actions: a, graph: graph}
}

func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

func (h *FollowHandler) FollowUser(c echo.Context) error {
	res := h.actions.FollowUser(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	return respond(c, http.StatusCreated, res, map[string]bool{"following": true})
}

func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	res := h.actions.UnfollowUser(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	return respond(c, http.StatusOK, res, map[string]bool{"following": false})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	limit, offset := pageParams(c)
	users, err := h.graph.ListFollowers(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, users)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	limit, offset := pageParams(c)
	users, err := h.graph.ListFollowing(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, users)
}
