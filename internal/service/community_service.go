package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/domain"
	"github.com/myhome/myhome-service/internal/repository"
)

// CommunityService manages communities and who administers them.
type CommunityService struct {
	communities repository.CommunityRepository
	users       repository.UserRepository
}

// CommunityDependencies encapsulates repositories required by the community service.
type CommunityDependencies struct {
	CommunityRepo repository.CommunityRepository
	UserRepo      repository.UserRepository
}

// NewCommunityService constructs the service.
func NewCommunityService(deps CommunityDependencies) *CommunityService {
	return &CommunityService{
		communities: deps.CommunityRepo,
		users:       deps.UserRepo,
	}
}

// Create registers a community with the caller as its first administrator.
func (s *CommunityService) Create(ctx context.Context, principal *auth.Principal, name, district string) (*domain.Community, error) {
	caller, err := s.caller(ctx, principal)
	if err != nil {
		return nil, err
	}

	community := &domain.Community{
		ID:       uuid.NewString(),
		Name:     name,
		District: district,
		AdminIDs: []string{caller.ID},
	}
	if err := s.communities.Create(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

// List returns one page of communities.
func (s *CommunityService) List(ctx context.Context, page domain.PageRequest) ([]domain.Community, domain.PageInfo, error) {
	page = page.Normalize()
	communities, total, err := s.communities.List(ctx, page)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return communities, domain.NewPageInfo(page, total), nil
}

// Get returns a single community.
func (s *CommunityService) Get(ctx context.Context, id string) (*domain.Community, error) {
	return s.communities.GetByID(ctx, id)
}

// ListAdmins returns one page of the community's administrators.
func (s *CommunityService) ListAdmins(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.User, domain.PageInfo, error) {
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return nil, domain.PageInfo{}, err
	}
	page = page.Normalize()
	admins, total, err := s.communities.ListAdmins(ctx, communityID, page)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return admins, domain.NewPageInfo(page, total), nil
}

// AddAdmins grants administration of the community to existing users.
func (s *CommunityService) AddAdmins(ctx context.Context, principal *auth.Principal, communityID string, userIDs []string) error {
	if _, err := s.requireAdmin(ctx, principal, communityID); err != nil {
		return err
	}
	for _, id := range userIDs {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
			}
			return err
		}
	}
	return s.communities.AddAdmins(ctx, communityID, userIDs)
}

// RemoveAdmin revokes administration from adminID.
func (s *CommunityService) RemoveAdmin(ctx context.Context, principal *auth.Principal, communityID, adminID string) error {
	if _, err := s.requireAdmin(ctx, principal, communityID); err != nil {
		return err
	}
	removed, err := s.communities.RemoveAdmin(ctx, communityID, adminID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("admin %s: %w", adminID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the community.
func (s *CommunityService) Delete(ctx context.Context, principal *auth.Principal, communityID string) error {
	if _, err := s.requireAdmin(ctx, principal, communityID); err != nil {
		return err
	}
	return s.communities.Delete(ctx, communityID)
}

func (s *CommunityService) requireAdmin(ctx context.Context, principal *auth.Principal, communityID string) (*domain.Community, error) {
	caller, err := s.caller(ctx, principal)
	if err != nil {
		return nil, err
	}
	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if !community.HasAdmin(caller.ID) {
		return nil, domain.ErrForbidden
	}
	return community, nil
}

// caller resolves the principal to its account. A token whose account is gone grants nothing.
func (s *CommunityService) caller(ctx context.Context, principal *auth.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrForbidden
	}
	user, err := s.users.GetByEmail(ctx, principal.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return user, nil
}
