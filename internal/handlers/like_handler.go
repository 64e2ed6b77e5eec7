package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lumina/backend/internal/actions"
	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/services"
)

// LikeHandler handles the polymorphic like toggle.
type LikeHandler struct {
	actions    *actions.Actions
	engagement *services.EngagementService
}

func NewLikeHandler(a *actions.Actions, engagement *services.EngagementService) *LikeHandler {
	return &LikeHandler{actions: a, engagement: engagement}
}

func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/likes/toggle", h.ToggleLike)
	g.GET("/likes/status", h.GetLikeStatus)
}

func (h *LikeHandler) ToggleLike(c echo.Context) error {
	req := new(models.ToggleLikeRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	res := h.actions.ToggleLike(c.Request().Context(), middleware.IdentityFrom(c),
		models.LikeableType(req.LikeableType), req.LikeableID)
	return respond(c, http.StatusOK, res.Result, map[string]bool{"liked": res.Liked})
}

// GetLikeStatus reports whether the caller likes ?likeable_type=&likeable_id=.
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	t, err := models.ParseLikeableType(c.QueryParam("likeable_type"))
	if err != nil {
		return err
	}
	liked, err := h.engagement.HasLiked(c.Request().Context(), middleware.IdentityFrom(c), t, c.QueryParam("likeable_id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]bool{"liked": liked})
}
