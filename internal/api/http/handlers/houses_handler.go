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

// HouseManager is the house surface the endpoints need.
type HouseManager interface {
	AddHouses(ctx context.Context, principal *auth.Principal, communityID string, names []string) ([]domain.House, error)
	ListCommunityHouses(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.House, domain.PageInfo, error)
	RemoveHouse(ctx context.Context, principal *auth.Principal, communityID, houseID string) error
	List(ctx context.Context, page domain.PageRequest) ([]domain.House, domain.PageInfo, error)
	Get(ctx context.Context, houseID string) (*domain.House, error)
	ListMembers(ctx context.Context, houseID string, page domain.PageRequest) ([]domain.HouseMember, domain.PageInfo, error)
	AddMembers(ctx context.Context, principal *auth.Principal, houseID string, names []string) ([]domain.HouseMember, error)
	RemoveMember(ctx context.Context, principal *auth.Principal, houseID, memberID string) error
	ListHousemates(ctx context.Context, principal *auth.Principal, userID string, page domain.PageRequest) ([]domain.HouseMember, domain.PageInfo, error)
}

// HousesHandler exposes house and house member endpoints.
type HousesHandler struct {
	houses HouseManager
}

// NewHousesHandler constructs handler.
func NewHousesHandler(houses HouseManager) *HousesHandler {
	return &HousesHandler{houses: houses}
}

// AddToCommunity POST /communities/:communityId/houses.
func (h *HousesHandler) AddToCommunity(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddHousesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	houses, err := h.houses.AddHouses(c.UserContext(), principal, c.Params("communityId"), req.Names())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"houses": dto.NewHouseResponses(houses)},
	})
}

// ListForCommunity GET /communities/:communityId/houses.
func (h *HousesHandler) ListForCommunity(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid paging parameters", nil)
	}
	houses, info, err := h.houses.ListCommunityHouses(c.UserContext(), c.Params("communityId"), query.PageRequest())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"houses":   dto.NewHouseResponses(houses),
			"pageInfo": info,
		},
	})
}

// RemoveFromCommunity DELETE /communities/:communityId/houses/:houseId.
func (h *HousesHandler) RemoveFromCommunity(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.houses.RemoveHouse(c.UserContext(), principal, c.Params("communityId"), c.Params("houseId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List GET /houses.
func (h *HousesHandler) List(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid paging parameters", nil)
	}
	houses, info, err := h.houses.List(c.UserContext(), query.PageRequest())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"houses":   dto.NewHouseResponses(houses),
			"pageInfo": info,
		},
	})
}

// Get GET /houses/:houseId.
func (h *HousesHandler) Get(c *fiber.Ctx) error {
	house, err := h.houses.Get(c.UserContext(), c.Params("houseId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"house": dto.NewHouseResponses([]domain.House{*house})[0]},
	})
}

// ListMembers GET /houses/:houseId/members.
func (h *HousesHandler) ListMembers(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid paging parameters", nil)
	}
	members, info, err := h.houses.ListMembers(c.UserContext(), c.Params("houseId"), query.PageRequest())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"members":  dto.NewHouseMemberResponses(members),
			"pageInfo": info,
		},
	})
}

// AddMembers POST /houses/:houseId/members.
func (h *HousesHandler) AddMembers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	members, err := h.houses.AddMembers(c.UserContext(), principal, c.Params("houseId"), req.Names())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"members": dto.NewHouseMemberResponses(members)},
	})
}

// RemoveMember DELETE /houses/:houseId/members/:memberId.
func (h *HousesHandler) RemoveMember(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.houses.RemoveMember(c.UserContext(), principal, c.Params("houseId"), c.Params("memberId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListHousemates GET /users/:userId/housemates.
func (h *HousesHandler) ListHousemates(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid paging parameters", nil)
	}
	members, info, err := h.houses.ListHousemates(c.UserContext(), principal, c.Params("userId"), query.PageRequest())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"members":  dto.NewHouseMemberResponses(members),
			"pageInfo": info,
		},
	})
}
