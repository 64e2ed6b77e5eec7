package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/auth"
	"github.com/anonto42/lumina/backend/internal/models"
)

const identityKey = "identity"

// ProfileEnsurer creates the profile row for identities seen for the first time.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, identity *models.Identity) (*models.User, error)
}

type identityCtxKey struct{}

// Authenticate resolves the bearer token through provider and stores the
// identity on the echo context and the request context. When required is
// false, requests without a token pass through anonymously, but a bad token
// is still rejected.
func Authenticate(provider auth.IdentityProvider, profiles ProfileEnsurer, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing Authorization header")
				}
				return next(c)
			}
			token, ok := auth.BearerToken(header)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			ctx := c.Request().Context()
			identity, err := provider.Authenticate(ctx, token)
			if err != nil {
				log.Ctx(ctx).Debug().Err(err).Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			// Firebase users may reach the API before ever calling the login
			// endpoint.
			if profiles != nil && identity.Provider == "firebase" {
				if _, err := profiles.EnsureProfile(ctx, identity); err != nil {
					return err
				}
			}

			c.Set(identityKey, identity)
			ctx = context.WithValue(ctx, identityCtxKey{}, identity)
			l := log.Ctx(ctx).With().Str("user_id", identity.ID).Logger()
			c.SetRequest(c.Request().WithContext(l.WithContext(ctx)))
			return next(c)
		}
	}
}

// IdentityFrom returns the authenticated identity, or nil for anonymous requests.
func IdentityFrom(c echo.Context) *models.Identity {
	id, _ := c.Get(identityKey).(*models.Identity)
	return id
}

// IdentityFromContext is IdentityFrom for code that only holds a context.
func IdentityFromContext(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(identityCtxKey{}).(*models.Identity)
	return id
}
