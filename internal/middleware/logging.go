// Package middleware holds the echo middleware shared by every route group.
package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxQueryLogLength = 2048

// Logger writes one structured access log per request and attaches a
// request-scoped logger to the request context, so log.Ctx works downstream.
// Place it after echo's RequestID middleware.
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}

			l := log.With().
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", routePath(c)).
				Str("remote_ip", c.RealIP()).
				Str("query", truncate(req.URL.RawQuery, maxQueryLogLength)).
				Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// Let the error handler write the response before we read its status.
				c.Error(err)
			}

			status := c.Response().Status
			ev := l.With().
				Int("status", status).
				Dur("latency", time.Since(start)).
				Int64("bytes_out", c.Response().Size)
			if id := IdentityFrom(c); id != nil {
				ev = ev.Str("user_id", id.ID)
			}
			out := ev.Logger()

			var e *zerolog.Event
			switch {
			case status >= 500:
				e = out.Error().AnErr("error", err)
			case status >= 400:
				e = out.Warn()
			default:
				e = out.Info()
			}
			e.Msg("request")
			return nil
		}
	}
}

func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
