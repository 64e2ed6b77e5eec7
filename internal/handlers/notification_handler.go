package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/notifications"
	"github.com/anonto42/lumina/backend/internal/services"
)

// NotificationStream is the live feed of a user's new notifications.
type NotificationStream interface {
	Subscribe(ctx context.Context, userID string, onMessage func(*models.Notification)) error
}

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	notifications *services.NotificationService
	stream        NotificationStream
	keepAlive     time.Duration
}

func NewNotificationHandler(notifications *services.NotificationService, stream NotificationStream) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, stream: stream, keepAlive: 25 * time.Second}
}

func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.GET("/notifications/stream", h.Stream)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns a page (?page=&limit=) of notifications, newest first.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.notifications.List(c.Request().Context(), middleware.IdentityFrom(c), page, limit)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	n, err := h.notifications.UnreadCount(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]int64{"unread_count": n})
}

// Stream pushes the caller's new notifications as server-sent events until
// the client goes away. Events that arrive faster than the client reads are
// dropped; the list endpoint remains the source of truth.
func (h *NotificationHandler) Stream(c echo.Context) error {
	actor := middleware.IdentityFrom(c)
	if actor == nil {
		return models.ErrUnauthenticated
	}
	ctx := c.Request().Context()

	events := make(chan *models.Notification, 16)
	err := h.stream.Subscribe(ctx, actor.ID, func(n *models.Notification) {
		select {
		case events <- n:
		default:
		}
	})
	if errors.Is(err, notifications.ErrNoPubSub) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-events:
			payload, err := json.Marshal(n)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("encode notification event")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	if err := h.notifications.MarkRead(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, nil)
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	n, err := h.notifications.MarkAllRead(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, map[string]int64{"updated": n})
}
