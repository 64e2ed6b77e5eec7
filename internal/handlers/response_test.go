package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/anonto42/lumina/backend/internal/models"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		models.ErrUnauthenticated:                      http.StatusUnauthorized,
		models.ErrForbidden:                            http.StatusForbidden,
		models.NewValidationError("bad"):               http.StatusBadRequest,
		models.ErrSelfFollow:                           http.StatusBadRequest,
		models.ErrAlreadyFollowing:                     http.StatusConflict,
		models.NewNotFoundError("post"):                http.StatusNotFound,
		&models.StoreError{Err: errors.New("db down")}: http.StatusInternalServerError,
		errors.New("boom"):                             http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(models.KindOf(err)), err.Error())
	}
}

func render(err error) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ErrorHandler(err, c)
	return rec
}

func TestErrorHandler(t *testing.T) {
	rec := render(models.NewNotFoundError("comment"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"comment not found"}`, rec.Body.String())

	rec = render(echo.NewHTTPError(http.StatusUnauthorized, "missing Authorization header"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing Authorization header"}`, rec.Body.String())

	rec = render(&models.StoreError{Op: "x", Err: errors.New("connection refused")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"connection refused"}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	h := NewHealthHandler(map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    nil,
	})
	rec := httptest.NewRecorder()
	assert.NoError(t, h.HealthCheck(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)

	down := NewHealthHandler(map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return errors.New("down") }),
	})
	rec = httptest.NewRecorder()
	assert.NoError(t, down.HealthCheck(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}
