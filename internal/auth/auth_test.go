package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lumina/backend/internal/models"
)

var testUser = &models.User{ID: "user-1", Email: "alice@example.com", Username: "alice"}

func TestJWTProvider_RoundTrip(t *testing.T) {
	p := NewJWTProvider("secret", time.Hour)
	token, err := p.Issue(testUser)
	require.NoError(t, err)

	id, err := p.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "local", id.Provider)
}

func TestJWTProvider_Rejects(t *testing.T) {
	p := NewJWTProvider("secret", time.Hour)

	other, err := NewJWTProvider("other", time.Hour).Issue(testUser)
	require.NoError(t, err)
	_, err = p.Authenticate(context.Background(), other)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	expired := NewJWTProvider("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(testUser)
	require.NoError(t, err)
	_, err = p.Authenticate(context.Background(), stale)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JwtCustomClaims{UserID: "user-1"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = p.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = p.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

type fakeVerifier struct {
	token *fbauth.Token
	err   error
}

func (f fakeVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return f.token, f.err
}

func TestFirebaseProvider(t *testing.T) {
	p := NewFirebaseProvider(fakeVerifier{token: &fbauth.Token{
		UID: "fb-1",
		Claims: map[string]interface{}{
			"email":   "jane@example.com",
			"name":    "Jane",
			"picture": "https://img/jane.png",
		},
	}})
	id, err := p.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", id.ID)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.Equal(t, "Jane", id.DisplayName)
	assert.Equal(t, "https://img/jane.png", id.AvatarURL)
	assert.Empty(t, id.Username)

	_, err = NewFirebaseProvider(fakeVerifier{err: errors.New("expired")}).Authenticate(context.Background(), "tok")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	var unset *FirebaseProvider
	_, err = unset.Authenticate(context.Background(), "tok")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestChain(t *testing.T) {
	local := NewJWTProvider("secret", time.Hour)
	fb := NewFirebaseProvider(fakeVerifier{err: errors.New("not a firebase token")})
	chain := Chain{fb, nil, local}

	token, err := local.Issue(testUser)
	require.NoError(t, err)
	id, err := chain.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "local", id.Provider)

	_, err = chain.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	_, err = chain.Authenticate(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = BearerToken("bearer   xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
