package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/services"
)

// PostHandler handles posts, videos and hashtag listings.
type PostHandler struct {
	content *services.ContentService
}

func NewPostHandler(content *services.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/videos", h.CreateVideo)
	g.DELETE("/videos/:id", h.DeleteVideo)
	g.PUT("/videos/:id/status", h.UpdateVideoStatus)
	g.GET("/hashtags/:tag/posts", h.GetPostsByHashtag)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	req := new(models.CreatePostRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	post, err := h.content.CreatePost(c.Request().Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, post)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.content.DeletePost(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, nil)
}

func (h *PostHandler) CreateVideo(c echo.Context) error {
	req := new(models.CreateVideoRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	video, err := h.content.CreateVideo(c.Request().Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, video)
}

func (h *PostHandler) DeleteVideo(c echo.Context) error {
	if err := h.content.DeleteVideo(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, nil)
}

func (h *PostHandler) UpdateVideoStatus(c echo.Context) error {
	req := new(models.UpdateVideoStatusRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	video, err := h.content.UpdateVideoStatus(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, video)
}

func (h *PostHandler) GetPostsByHashtag(c echo.Context) error {
	limit, offset := pageParams(c)
	posts, err := h.content.ListByHashtag(c.Request().Context(), c.Param("tag"), limit, offset)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, posts)
}
