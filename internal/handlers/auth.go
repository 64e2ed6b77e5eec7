package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/services"
)

// AuthHandler handles sign-up, sign-in and Firebase login.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterAuthRoutes registers the unauthenticated auth routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

func (h *AuthHandler) Signup(c echo.Context) error {
	req := new(models.SignUpRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	resp, err := h.auth.SignUp(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, resp)
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	req := new(models.SignInRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	resp, err := h.auth.SignIn(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, resp)
}

// FirebaseLogin exchanges a Firebase ID token for a local session token.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	req := new(models.FirebaseLoginRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	resp, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, resp)
}
