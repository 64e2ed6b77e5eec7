package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/services"
)

type FeedHandler struct {
	feed *services.FeedService
}

func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns one page of the caller's feed (?limit=&offset=).
func (h *FeedHandler) GetFeed(c echo.Context) error {
	limit, offset := pageParams(c)
	page, err := h.feed.GetFeed(c.Request().Context(), middleware.IdentityFrom(c), limit, offset)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, page)
}
