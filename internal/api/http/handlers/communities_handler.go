package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/myhome/myhome-service/internal/api/dto"
	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/domain"
	apperrors "github.com/myhome/myhome-service/pkg/util/errorutil"
)

// CommunityManager is the community surface the endpoints need.
type CommunityManager interface {
	Create(ctx context.Context, principal *auth.Principal, name, district string) (*domain.Community, error)
	List(ctx context.Context, page domain.PageRequest) ([]domain.Community, domain.PageInfo, error)
	Get(ctx context.Context, id string) (*domain.Community, error)
	ListAdmins(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.User, domain.PageInfo, error)
	AddAdmins(ctx context.Context, principal *auth.Principal, communityID string, userIDs []string) error
	RemoveAdmin(ctx context.Context, principal *auth.Principal, communityID, adminID string) error
	Delete(ctx context.Context, principal *auth.Principal, communityID string) error
}

// CommunitiesHandler exposes community endpoints.
type CommunitiesHandler struct {
	communities CommunityManager
}

// NewCommunitiesHandler constructs handler.
func NewCommunitiesHandler(communities CommunityManager) *CommunitiesHandler {
	return &CommunitiesHandler{communities: communities}
}

// Create POST /communities.
func (h *CommunitiesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	community, err := h.communities.Create(c.UserContext(), principal, req.Name, req.District)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"community": dto.NewCommunityResponse(community)},
	})
}

// List GET /communities.
func (h *CommunitiesHandler) List(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid paging parameters", nil)
	}
	communities, info, err := h.communities.List(c.UserContext(), query.PageRequest())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"communities": dto.NewCommunityResponses(communities),
			"pageInfo":    info,
		},
	})
}

// Get GET /communities/:communityId.
func (h *CommunitiesHandler) Get(c *fiber.Ctx) error {
	community, err := h.communities.Get(c.UserContext(), c.Params("communityId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"community": dto.NewCommunityResponse(community)}})
}

// ListAdmins GET /communities/:communityId/admins.
func (h *CommunitiesHandler) ListAdmins(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid paging parameters", nil)
	}
	admins, info, err := h.communities.ListAdmins(c.UserContext(), c.Params("communityId"), query.PageRequest())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admins":   dto.NewUserResponses(admins),
			"pageInfo": info,
		},
	})
}

// AddAdmins POST /communities/:communityId/admins.
func (h *CommunitiesHandler) AddAdmins(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddAdminsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.communities.AddAdmins(c.UserContext(), principal, c.Params("communityId"), req.Admins); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

// RemoveAdmin DELETE /communities/:communityId/admins/:adminId.
func (h *CommunitiesHandler) RemoveAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.communities.RemoveAdmin(c.UserContext(), principal, c.Params("communityId"), c.Params("adminId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete DELETE /communities/:communityId.
func (h *CommunitiesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.communities.Delete(c.UserContext(), principal, c.Params("communityId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
