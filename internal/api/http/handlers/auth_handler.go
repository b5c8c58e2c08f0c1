package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/myhome/myhome-service/internal/api/dto"
	"github.com/myhome/myhome-service/internal/domain"
	apperrors "github.com/myhome/myhome-service/pkg/util/errorutil"
)

// Authenticator verifies login credentials.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (*domain.AuthenticationData, error)
}

// AuthHeaders names the response headers a successful login sets.
type AuthHeaders struct {
	Subject string
	Token   string
}

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth    Authenticator
	headers AuthHeaders
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authenticator Authenticator, headers AuthHeaders) *AuthHandler {
	return &AuthHandler{auth: authenticator, headers: headers}
}

// Login handles POST /auth/login. Unknown users and wrong passwords produce the same 401.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	data, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Set(h.headers.Subject, data.Subject)
	c.Set(h.headers.Token, data.Token)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    data.UserID,
				"email": data.Subject,
			},
			"auth": dto.AuthResponse{Token: data.Token, ExpiresAt: data.ExpiresAt},
		},
	})
}
