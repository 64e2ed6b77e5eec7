// Package auth resolves bearer tokens into identities.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/lumina/backend/internal/models"
)

// IdentityProvider turns a bearer token into the identity it vouches for.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// Chain tries each provider in order and returns the first identity resolved.
type Chain []IdentityProvider

func (c Chain) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, models.ErrUnauthenticated
	}
	var errs []error
	for _, p := range c {
		if p == nil {
			continue
		}
		id, err := p.Authenticate(ctx, token)
		if err == nil {
			return id, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(append([]error{models.ErrUnauthenticated}, errs...)...)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
