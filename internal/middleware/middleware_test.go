package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lumina/backend/internal/auth"
	"github.com/anonto42/lumina/backend/internal/models"
)

type recordingEnsurer struct {
	seen []string
	err  error
}

func (r *recordingEnsurer) EnsureProfile(_ context.Context, id *models.Identity) (*models.User, error) {
	r.seen = append(r.seen, id.ID)
	return &models.User{ID: id.ID}, r.err
}

type staticProvider struct{ identity *models.Identity }

func (p staticProvider) Authenticate(context.Context, string) (*models.Identity, error) {
	return p.identity, nil
}

func whoami(c echo.Context) error {
	id := IdentityFrom(c)
	if id == nil {
		return c.String(http.StatusOK, "anonymous")
	}
	if IdentityFromContext(c.Request().Context()) != id {
		return c.String(http.StatusInternalServerError, "context mismatch")
	}
	return c.String(http.StatusOK, id.ID)
}

func serve(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_Required(t *testing.T) {
	jwt := auth.NewJWTProvider("secret", time.Hour)
	token, err := jwt.Issue(&models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	e := echo.New()
	e.GET("/me", whoami, Authenticate(jwt, nil, true))

	rec := serve(e, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer nope").Code)
}

func TestAuthenticate_Optional(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoami, Authenticate(auth.NewJWTProvider("secret", time.Hour), nil, false))

	rec := serve(e, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer nope").Code)
}

func TestAuthenticate_EnsuresFirebaseProfiles(t *testing.T) {
	ensurer := &recordingEnsurer{}
	e := echo.New()
	e.GET("/me", whoami, Authenticate(staticProvider{&models.Identity{ID: "fb1", Provider: "firebase"}}, ensurer, true))

	assert.Equal(t, http.StatusOK, serve(e, "Bearer x").Code)
	assert.Equal(t, []string{"fb1"}, ensurer.seen)

	local := echo.New()
	local.GET("/me", whoami, Authenticate(staticProvider{&models.Identity{ID: "u1", Provider: "local"}}, ensurer, true))
	assert.Equal(t, http.StatusOK, serve(local, "Bearer x").Code)
	assert.Equal(t, []string{"fb1"}, ensurer.seen)

	ensurer.err = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, serve(e, "Bearer x").Code)
}

func TestLogger_AttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	e := echo.New()
	e.Use(Logger())
	e.GET("/ping", func(c echo.Context) error {
		log.Ctx(c.Request().Context()).Info().Msg("inside")
		return c.NoContent(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping?q=1", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"message":"inside"`)
	assert.Contains(t, out, `"request_id":"rid-42"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestMetrics_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/items/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	before := testutil.ToFloat64(httpReqs.WithLabelValues(http.MethodGet, "/items/:id", "204"))
	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	after := testutil.ToFloat64(httpReqs.WithLabelValues(http.MethodGet, "/items/:id", "204"))
	assert.Equal(t, before+2, after)
}
