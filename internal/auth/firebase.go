package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/anonto42/lumina/backend/internal/models"
)

// TokenVerifier is the part of *fbauth.Client the provider needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseProvider verifies Firebase ID tokens.
type FirebaseProvider struct {
	verifier TokenVerifier
}

func NewFirebaseProvider(verifier TokenVerifier) *FirebaseProvider {
	return &FirebaseProvider{verifier: verifier}
}

func (p *FirebaseProvider) Authenticate(ctx context.Context, idToken string) (*models.Identity, error) {
	if p == nil || p.verifier == nil {
		return nil, fmt.Errorf("%w: firebase is not configured", models.ErrUnauthenticated)
	}
	token, err := p.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	return &models.Identity{
		ID:          token.UID,
		Email:       claim(token, "email"),
		Username:    claim(token, "username"),
		DisplayName: claim(token, "name"),
		AvatarURL:   claim(token, "picture"),
		Provider:    "firebase",
	}, nil
}

func claim(token *fbauth.Token, key string) string {
	if v, ok := token.Claims[key].(string); ok {
		return v
	}
	return ""
}
