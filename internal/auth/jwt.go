package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/anonto42/lumina/backend/internal/models"
)

const jwtIssuer = "lumina"

// JWTProvider issues and verifies HS256 tokens for local sessions.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTProvider(secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user.
func (p *JWTProvider) Issue(user *models.User) (string, error) {
	now := p.now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (p *JWTProvider) Authenticate(_ context.Context, tokenString string) (*models.Identity, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: invalid token", models.ErrUnauthenticated)
	}
	if claims.Issuer != jwtIssuer {
		return nil, errors.Join(models.ErrUnauthenticated, errors.New("unexpected issuer"))
	}
	return &models.Identity{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		Provider: "local",
	}, nil
}
