package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lumina/backend/internal/actions"
	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/services"
)

// CommentHandler handles comments on posts and videos.
type CommentHandler struct {
	actions    *actions.Actions
	engagement *services.EngagementService
}

func NewCommentHandler(a *actions.Actions, engagement *services.EngagementService) *CommentHandler {
	return &CommentHandler{actions: a, engagement: engagement}
}

func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	req := new(models.CreateCommentRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	res := h.actions.AddComment(c.Request().Context(), middleware.IdentityFrom(c),
		models.ContentType(req.CommentableType), req.CommentableID, req.Content, req.ParentCommentID)
	return respond(c, http.StatusCreated, res.Result, map[string]string{"comment_id": res.CommentID})
}

// GetComments lists comments on ?commentable_type=&commentable_id=. With
// parent_id it lists the replies to that comment instead.
func (h *CommentHandler) GetComments(c echo.Context) error {
	t, err := models.ParseContentType(c.QueryParam("commentable_type"))
	if err != nil {
		return err
	}
	var parentID *string
	if p := c.QueryParam("parent_id"); p != "" {
		parentID = &p
	}
	limit, offset := pageParams(c)
	comments, err := h.engagement.ListComments(c.Request().Context(), t, c.QueryParam("commentable_id"), parentID, limit, offset)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, comments)
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	res := h.actions.DeleteComment(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	return respond(c, http.StatusOK, res, nil)
}
