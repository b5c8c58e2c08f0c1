package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/myhome/myhome-service/internal/api/dto"
	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/domain"
	apperrors "github.com/myhome/myhome-service/pkg/util/errorutil"
)

// UserManager is the account surface the users endpoints need.
type UserManager interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	List(ctx context.Context, page domain.PageRequest) ([]domain.User, domain.PageInfo, error)
	GetDetails(ctx context.Context, principal *auth.Principal, userID string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, resetToken, newPassword string) error
	ConfirmEmail(ctx context.Context, userID, confirmToken string) error
	ResendEmailConfirm(ctx context.Context, userID string) error
}

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	users UserManager
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users UserManager) *UsersHandler {
	return &UsersHandler{users: users}
}

// Signup handles POST /users.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid paging parameters", nil)
	}

	users, info, err := h.users.List(c.UserContext(), query.PageRequest())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"users":    dto.NewUserResponses(users),
			"pageInfo": info,
		},
	})
}

// Get handles GET /users/:userId.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.users.GetDetails(c.UserContext(), principal, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserResponse(user)}})
}

// Password handles POST /users/password?action=FORGOT|RESET.
func (h *UsersHandler) Password(c *fiber.Ctx) error {
	switch strings.ToUpper(c.Query("action")) {
	case "FORGOT":
		var req dto.ForgotPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
		if err := h.users.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
			return err
		}
	case "RESET":
		var req dto.ResetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
		if err := h.users.ResetPassword(c.UserContext(), req.Email, req.Token, req.NewPassword); err != nil {
			return err
		}
	default:
		return apperrors.NewBadRequest("action must be FORGOT or RESET")
	}
	return c.SendStatus(http.StatusOK)
}

// ConfirmEmail handles GET /users/:userId/email-confirm/:token.
func (h *UsersHandler) ConfirmEmail(c *fiber.Ctx) error {
	if err := h.users.ConfirmEmail(c.UserContext(), c.Params("userId"), c.Params("token")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

// ResendEmailConfirm handles POST /users/:userId/email-confirm-resend.
func (h *UsersHandler) ResendEmailConfirm(c *fiber.Ctx) error {
	if err := h.users.ResendEmailConfirm(c.UserContext(), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}
