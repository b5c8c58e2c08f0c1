package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/myhome/myhome-service/internal/domain"
	"github.com/myhome/myhome-service/internal/events"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type mockCommunityRepo struct {
	mock.Mock
}

func (m *mockCommunityRepo) Create(ctx context.Context, community *domain.Community) error {
	return m.Called(ctx, community).Error(0)
}

func (m *mockCommunityRepo) GetByID(ctx context.Context, id string) (*domain.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}

func (m *mockCommunityRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Community, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Community), args.Get(1).(int64), args.Error(2)
}

func (m *mockCommunityRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCommunityRepo) AddAdmins(ctx context.Context, communityID string, userIDs []string) error {
	return m.Called(ctx, communityID, userIDs).Error(0)
}

func (m *mockCommunityRepo) RemoveAdmin(ctx context.Context, communityID, userID string) (bool, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCommunityRepo) ListAdmins(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.User, int64, error) {
	args := m.Called(ctx, communityID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type mockHouseRepo struct {
	mock.Mock
}

func (m *mockHouseRepo) AddHouses(ctx context.Context, houses []domain.House) error {
	return m.Called(ctx, houses).Error(0)
}

func (m *mockHouseRepo) GetByID(ctx context.Context, id string) (*domain.House, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *mockHouseRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.House, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.House), args.Get(1).(int64), args.Error(2)
}

func (m *mockHouseRepo) ListByCommunity(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.House, int64, error) {
	args := m.Called(ctx, communityID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.House), args.Get(1).(int64), args.Error(2)
}

func (m *mockHouseRepo) Remove(ctx context.Context, communityID, houseID string) (bool, error) {
	args := m.Called(ctx, communityID, houseID)
	return args.Bool(0), args.Error(1)
}

func (m *mockHouseRepo) AddMembers(ctx context.Context, members []domain.HouseMember) error {
	return m.Called(ctx, members).Error(0)
}

func (m *mockHouseRepo) ListMembers(ctx context.Context, houseID string, page domain.PageRequest) ([]domain.HouseMember, int64, error) {
	args := m.Called(ctx, houseID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.HouseMember), args.Get(1).(int64), args.Error(2)
}

func (m *mockHouseRepo) RemoveMember(ctx context.Context, houseID, memberID string) (bool, error) {
	args := m.Called(ctx, houseID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *mockHouseRepo) ListMembersByAdmin(ctx context.Context, userID string, page domain.PageRequest) ([]domain.HouseMember, int64, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.HouseMember), args.Get(1).(int64), args.Error(2)
}

type mockSecurityTokenRepo struct {
	mock.Mock
}

func (m *mockSecurityTokenRepo) Save(ctx context.Context, token *domain.SecurityToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSecurityTokenRepo) Get(ctx context.Context, tokenType domain.SecurityTokenType, token string) (*domain.SecurityToken, error) {
	args := m.Called(ctx, tokenType, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SecurityToken), args.Error(1)
}

func (m *mockSecurityTokenRepo) Consume(ctx context.Context, tokenType domain.SecurityTokenType, token string) (bool, error) {
	args := m.Called(ctx, tokenType, token)
	return args.Bool(0), args.Error(1)
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
