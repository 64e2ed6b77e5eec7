// Package services implements the engagement engine, the social graph and the
// content, feed, profile and auth operations built on the repositories.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/notifications"
	"github.com/anonto42/lumina/backend/internal/observability"
)

func requireActor(actor *models.Identity) error {
	if actor == nil || strings.TrimSpace(actor.ID) == "" {
		return models.ErrUnauthenticated
	}
	return nil
}

func requireID(name, id string) error {
	if strings.TrimSpace(id) == "" {
		return models.NewValidationError("%s is required", name)
	}
	return nil
}

// notify runs after commit. Failures are logged and counted, never returned.
func notify(ctx context.Context, n *notifications.Notifier, ev notifications.Event) {
	if err := n.Notify(ctx, ev); err != nil {
		observability.SideEffectFailures.WithLabelValues("notification").Inc()
		log.Ctx(ctx).Warn().Err(err).
			Str("type", string(ev.Type)).
			Str("recipient_id", ev.RecipientID).
			Msg("notification failed")
	}
}

func sideEffectFailed(ctx context.Context, effect string, err error) {
	observability.SideEffectFailures.WithLabelValues(effect).Inc()
	log.Ctx(ctx).Warn().Err(err).Str("effect", effect).Msg("post-commit step failed")
}

// Pagination bounds shared by list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage clamps limit into [1, MaxPageSize], defaulting non-positive
// values, and floors offset at zero.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
