package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/domain"
	"github.com/myhome/myhome-service/internal/repository"
)

// HouseService manages the houses of a community and the members listed on each house.
// Changes require the caller to administer the owning community.
type HouseService struct {
	houses      repository.HouseRepository
	communities *CommunityService
}

// HouseDependencies encapsulates repositories required by the house service.
type HouseDependencies struct {
	HouseRepo     repository.HouseRepository
	CommunityRepo repository.CommunityRepository
	UserRepo      repository.UserRepository
}

// NewHouseService constructs the service.
func NewHouseService(deps HouseDependencies) *HouseService {
	return &HouseService{
		houses: deps.HouseRepo,
		communities: NewCommunityService(CommunityDependencies{
			CommunityRepo: deps.CommunityRepo,
			UserRepo:      deps.UserRepo,
		}),
	}
}

// AddHouses creates one house per name in the community.
func (s *HouseService) AddHouses(ctx context.Context, principal *auth.Principal, communityID string, names []string) ([]domain.House, error) {
	if _, err := s.communities.requireAdmin(ctx, principal, communityID); err != nil {
		return nil, err
	}
	houses := make([]domain.House, 0, len(names))
	for _, name := range names {
		houses = append(houses, domain.House{ID: uuid.NewString(), CommunityID: communityID, Name: name})
	}
	if err := s.houses.AddHouses(ctx, houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// ListCommunityHouses returns one page of the community's houses.
func (s *HouseService) ListCommunityHouses(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.House, domain.PageInfo, error) {
	if _, err := s.communities.Get(ctx, communityID); err != nil {
		return nil, domain.PageInfo{}, err
	}
	page = page.Normalize()
	houses, total, err := s.houses.ListByCommunity(ctx, communityID, page)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return houses, domain.NewPageInfo(page, total), nil
}

// RemoveHouse deletes houseID from the community together with its members.
func (s *HouseService) RemoveHouse(ctx context.Context, principal *auth.Principal, communityID, houseID string) error {
	if _, err := s.communities.requireAdmin(ctx, principal, communityID); err != nil {
		return err
	}
	removed, err := s.houses.Remove(ctx, communityID, houseID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("house %s: %w", houseID, domain.ErrHouseNotFound)
	}
	return nil
}

// List returns one page of houses across all communities.
func (s *HouseService) List(ctx context.Context, page domain.PageRequest) ([]domain.House, domain.PageInfo, error) {
	page = page.Normalize()
	houses, total, err := s.houses.List(ctx, page)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return houses, domain.NewPageInfo(page, total), nil
}

// Get returns a single house.
func (s *HouseService) Get(ctx context.Context, houseID string) (*domain.House, error) {
	return s.houses.GetByID(ctx, houseID)
}

// ListMembers returns one page of the members listed on houseID.
func (s *HouseService) ListMembers(ctx context.Context, houseID string, page domain.PageRequest) ([]domain.HouseMember, domain.PageInfo, error) {
	if _, err := s.houses.GetByID(ctx, houseID); err != nil {
		return nil, domain.PageInfo{}, err
	}
	page = page.Normalize()
	members, total, err := s.houses.ListMembers(ctx, houseID, page)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return members, domain.NewPageInfo(page, total), nil
}

// AddMembers lists one new member per name on houseID.
func (s *HouseService) AddMembers(ctx context.Context, principal *auth.Principal, houseID string, names []string) ([]domain.HouseMember, error) {
	if _, err := s.requireHouseAdmin(ctx, principal, houseID); err != nil {
		return nil, err
	}
	members := make([]domain.HouseMember, 0, len(names))
	for _, name := range names {
		members = append(members, domain.HouseMember{ID: uuid.NewString(), HouseID: houseID, Name: name})
	}
	if err := s.houses.AddMembers(ctx, members); err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMember deletes memberID from houseID.
func (s *HouseService) RemoveMember(ctx context.Context, principal *auth.Principal, houseID, memberID string) error {
	if _, err := s.requireHouseAdmin(ctx, principal, houseID); err != nil {
		return err
	}
	removed, err := s.houses.RemoveMember(ctx, houseID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
	}
	return nil
}

// ListHousemates returns the members of every house in the communities userID administers.
// Only the user themself may ask.
func (s *HouseService) ListHousemates(ctx context.Context, principal *auth.Principal, userID string, page domain.PageRequest) ([]domain.HouseMember, domain.PageInfo, error) {
	caller, err := s.communities.caller(ctx, principal)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	if caller.ID != userID {
		return nil, domain.PageInfo{}, domain.ErrForbidden
	}
	page = page.Normalize()
	members, total, err := s.houses.ListMembersByAdmin(ctx, userID, page)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return members, domain.NewPageInfo(page, total), nil
}

func (s *HouseService) requireHouseAdmin(ctx context.Context, principal *auth.Principal, houseID string) (*domain.House, error) {
	house, err := s.houses.GetByID(ctx, houseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.communities.requireAdmin(ctx, principal, house.CommunityID); err != nil {
		return nil, err
	}
	return house, nil
}
