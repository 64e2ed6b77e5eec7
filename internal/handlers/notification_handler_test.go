package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/notifications"
)

type fixedIdentity struct{}

func (fixedIdentity) Authenticate(context.Context, string) (*models.Identity, error) {
	return &models.Identity{ID: "u1", Provider: "local"}, nil
}

func TestStream_UnavailableWithoutPubSub(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	var notifier *notifications.Notifier
	h := NewNotificationHandler(nil, notifier)
	e.GET("/notifications/stream", h.Stream, middleware.Authenticate(fixedIdentity{}, nil, true))

	req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer x")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"live notifications are unavailable"}`, rec.Body.String())
}
