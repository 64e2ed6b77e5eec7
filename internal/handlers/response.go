package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/actions"
	"github.com/anonto42/lumina/backend/internal/models"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindNone:
		return http.StatusOK
	case models.KindUnauthenticated:
		return http.StatusUnauthorized
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindValidation, models.KindSelfFollow:
		return http.StatusBadRequest
	case models.KindAlreadyFollowing:
		return http.StatusConflict
	case models.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respond writes an action result, with data on success.
func respond(c echo.Context, status int, res actions.Result, data interface{}) error {
	if !res.Success {
		return c.JSON(StatusFor(res.Kind), Envelope{Error: res.Error})
	}
	return ok(c, status, data)
}

// ErrorHandler renders errors returned from handlers and middleware in the
// response envelope. It replaces echo's default HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var status int
	var msg string
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		msg = fmt.Sprint(he.Message)
		if he.Internal != nil {
			err = he.Internal
		}
	} else {
		status = StatusFor(models.KindOf(err))
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request().Context()).Error().Err(err).Int("status", status).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, Envelope{Error: msg})
	}
	if err != nil {
		log.Ctx(c.Request().Context()).Error().Err(err).Msg("write error response")
	}
}

// bindAndValidate decodes the request body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return models.NewValidationError("invalid request body")
	}
	return c.Validate(req)
}

// pageParams reads limit and offset query parameters. Missing or malformed
// values become zero and are normalized by the service.
func pageParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
