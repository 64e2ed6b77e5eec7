package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anonto42/lumina/backend/internal/models"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	ok := &models.SignUpRequest{Email: "a@example.com", Username: "alice_01", Password: "long-enough"}
	assert.NoError(t, v.Validate(ok))

	cases := map[string]*models.SignUpRequest{
		"missing email":   {Username: "alice", Password: "long-enough"},
		"bad username":    {Email: "a@example.com", Username: "a b", Password: "long-enough"},
		"short username":  {Email: "a@example.com", Username: "ab", Password: "long-enough"},
		"short password":  {Email: "a@example.com", Username: "alice", Password: "short"},
		"malformed email": {Email: "nope", Username: "alice", Password: "long-enough"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, v.Validate(req), models.ErrValidation)
		})
	}
}

func TestValidate_UsernameMessage(t *testing.T) {
	err := NewValidator().Validate(&models.SignUpRequest{Email: "a@example.com", Username: "!!!", Password: "long-enough"})
	assert.EqualError(t, err, "username must be 3-30 letters, digits, underscores or dots")
}
