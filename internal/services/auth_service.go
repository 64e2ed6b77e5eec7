package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/auth"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// TokenIssuer signs local session tokens.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthService struct {
	store    *repositories.Store
	tokens   TokenIssuer
	firebase auth.IdentityProvider
}

// NewAuthService wires local credentials and, when firebase is non-nil,
// Firebase sign-in.
func NewAuthService(store *repositories.Store, tokens TokenIssuer, firebase auth.IdentityProvider) *AuthService {
	return &AuthService{store: store, tokens: tokens, firebase: firebase}
}

var errBadCredentials = errors.New("invalid email or password")

func (s *AuthService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Username: username,
	}
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		user.DisplayName = &name
	} else {
		user.DisplayName = &username
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		taken, err := tx.Users.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return models.NewValidationError("username is already taken")
		}
		if _, err := tx.Credentials.GetCredentialByEmail(ctx, user.Email); err == nil {
			return models.NewValidationError("email is already registered")
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if err := tx.Users.CreateUser(ctx, user); err != nil {
			if models.IsDuplicate(err) {
				return models.NewValidationError("username is already taken")
			}
			return err
		}
		return tx.Credentials.CreateCredential(ctx, &models.Credential{
			UserID: user.ID, Email: user.Email, PasswordHash: hash,
		})
	})
	if err != nil {
		return nil, models.NewStoreError("sign up", err)
	}
	log.Ctx(ctx).Info().Str("user_id", user.ID).Msg("user registered")
	return s.respond(user)
}

func (s *AuthService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.AuthResponse, error) {
	cred, err := s.store.Credentials.GetCredentialByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(cred.PasswordHash, req.Password) {
		return nil, errors.Join(models.ErrUnauthenticated, errBadCredentials)
	}
	user, err := s.store.Users.GetUserByID(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local session token,
// creating the profile row on first login.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.firebase == nil {
		return nil, models.NewValidationError("firebase sign-in is not enabled")
	}
	identity, err := s.firebase.Authenticate(ctx, idToken)
	if err != nil {
		return nil, err
	}
	user, err := s.EnsureProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// EnsureProfile returns the user row for identity, creating it if absent.
func (s *AuthService) EnsureProfile(ctx context.Context, identity *models.Identity) (*models.User, error) {
	if err := requireActor(identity); err != nil {
		return nil, err
	}
	user, err := s.store.Users.GetUserByID(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	username := DeriveUsername(identity)
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		taken, err := tx.Users.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			username = disambiguate(username, identity.ID)
		}
		display := strings.TrimSpace(identity.DisplayName)
		if display == "" {
			display = username
		}
		user = &models.User{
			ID:          identity.ID,
			Email:       strings.ToLower(identity.Email),
			Username:    username,
			DisplayName: &display,
		}
		if identity.AvatarURL != "" {
			avatar := identity.AvatarURL
			user.ProfilePictureURL = &avatar
		}
		return tx.Users.CreateUser(ctx, user)
	})
	if models.IsDuplicate(err) {
		// Concurrent first login created the row.
		return s.store.Users.GetUserByID(ctx, identity.ID)
	}
	if err != nil {
		return nil, models.NewStoreError("ensure profile", err)
	}
	log.Ctx(ctx).Info().Str("user_id", user.ID).Str("username", user.Username).Msg("profile created")
	return user, nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

var usernameStrip = regexp.MustCompile(`[^a-z0-9_.]`)

// DeriveUsername picks the username claim, then the email local part, then
// "user_" plus the first 8 characters of the id.
func DeriveUsername(identity *models.Identity) string {
	candidates := []string{identity.Username}
	if at := strings.IndexByte(identity.Email, '@'); at > 0 {
		candidates = append(candidates, identity.Email[:at])
	}
	for _, c := range candidates {
		c = usernameStrip.ReplaceAllString(strings.ToLower(c), "")
		if len(c) > 30 {
			c = c[:30]
		}
		if len(c) >= 3 {
			return c
		}
	}
	id := strings.ToLower(identity.ID)
	if len(id) > 8 {
		id = id[:8]
	}
	return "user_" + id
}

func disambiguate(username, id string) string {
	suffix := strings.ToLower(id)
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	if len(username) > 30-len(suffix)-1 {
		username = username[:30-len(suffix)-1]
	}
	return username + "_" + suffix
}
