package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/domain"
)

func newHouseFixture() (*HouseService, *mockHouseRepo) {
	_, communities, users := newCommunityFixture()
	houses := new(mockHouseRepo)
	houses.On("GetByID", mock.Anything, "h1").
		Return(&domain.House{ID: "h1", CommunityID: "c1", Name: "No. 1"}, nil).Maybe()
	houses.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrHouseNotFound).Maybe()

	svc := NewHouseService(HouseDependencies{HouseRepo: houses, CommunityRepo: communities, UserRepo: users})
	return svc, houses
}

func TestHouseService_AddHouses(t *testing.T) {
	svc, houses := newHouseFixture()
	houses.On("AddHouses", mock.Anything, mock.MatchedBy(func(hs []domain.House) bool {
		return len(hs) == 2 && hs[0].ID != "" && hs[0].CommunityID == "c1" && hs[1].Name == "No. 2"
	})).Return(nil)

	added, err := svc.AddHouses(context.Background(), &auth.Principal{Subject: ann.Email}, "c1", []string{"No. 1", "No. 2"})
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.NotEqual(t, added[0].ID, added[1].ID)
	houses.AssertExpectations(t)
}

func TestHouseService_AddHouses_Forbidden(t *testing.T) {
	svc, houses := newHouseFixture()
	ctx := context.Background()

	_, err := svc.AddHouses(ctx, &auth.Principal{Subject: bob.Email}, "c1", []string{"No. 1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AddHouses(ctx, nil, "c1", []string{"No. 1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AddHouses(ctx, &auth.Principal{Subject: ann.Email}, "missing", []string{"No. 1"})
	assert.ErrorIs(t, err, domain.ErrCommunityNotFound)
	houses.AssertNotCalled(t, "AddHouses", mock.Anything, mock.Anything)
}

func TestHouseService_ListCommunityHouses(t *testing.T) {
	svc, houses := newHouseFixture()
	houses.On("ListByCommunity", mock.Anything, "c1", domain.PageRequest{Page: 0, Size: domain.DefaultPageSize}).
		Return([]domain.House{{ID: "h1"}}, int64(1), nil)

	list, info, err := svc.ListCommunityHouses(context.Background(), "c1", domain.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), info.TotalElements)

	_, _, err = svc.ListCommunityHouses(context.Background(), "missing", domain.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrCommunityNotFound)
}

func TestHouseService_RemoveHouse(t *testing.T) {
	svc, houses := newHouseFixture()
	ctx := context.Background()
	admin := &auth.Principal{Subject: ann.Email}
	houses.On("Remove", mock.Anything, "c1", "h1").Return(true, nil)
	houses.On("Remove", mock.Anything, "c1", "h9").Return(false, nil)

	require.NoError(t, svc.RemoveHouse(ctx, admin, "c1", "h1"))
	assert.ErrorIs(t, svc.RemoveHouse(ctx, admin, "c1", "h9"), domain.ErrHouseNotFound)
	assert.ErrorIs(t, svc.RemoveHouse(ctx, &auth.Principal{Subject: bob.Email}, "c1", "h1"), domain.ErrForbidden)
}

func TestHouseService_Members(t *testing.T) {
	svc, houses := newHouseFixture()
	ctx := context.Background()
	admin := &auth.Principal{Subject: ann.Email}
	houses.On("AddMembers", mock.Anything, mock.MatchedBy(func(ms []domain.HouseMember) bool {
		return len(ms) == 1 && ms[0].HouseID == "h1" && ms[0].Name == "Carol" && ms[0].ID != ""
	})).Return(nil)
	houses.On("ListMembers", mock.Anything, "h1", domain.PageRequest{Page: 0, Size: 5}).
		Return([]domain.HouseMember{{ID: "m1", HouseID: "h1", Name: "Carol"}}, int64(1), nil)
	houses.On("RemoveMember", mock.Anything, "h1", "m1").Return(true, nil)
	houses.On("RemoveMember", mock.Anything, "h1", "m9").Return(false, nil)

	added, err := svc.AddMembers(ctx, admin, "h1", []string{"Carol"})
	require.NoError(t, err)
	require.Len(t, added, 1)

	members, _, err := svc.ListMembers(ctx, "h1", domain.PageRequest{Size: 5})
	require.NoError(t, err)
	assert.Equal(t, "Carol", members[0].Name)

	require.NoError(t, svc.RemoveMember(ctx, admin, "h1", "m1"))
	assert.ErrorIs(t, svc.RemoveMember(ctx, admin, "h1", "m9"), domain.ErrNotFound)

	_, err = svc.AddMembers(ctx, &auth.Principal{Subject: bob.Email}, "h1", []string{"Mallory"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.AddMembers(ctx, admin, "missing", []string{"Carol"})
	assert.ErrorIs(t, err, domain.ErrHouseNotFound)
	_, _, err = svc.ListMembers(ctx, "missing", domain.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrHouseNotFound)
}

func TestHouseService_ListHousemates(t *testing.T) {
	svc, houses := newHouseFixture()
	ctx := context.Background()
	houses.On("ListMembersByAdmin", mock.Anything, ann.ID, domain.PageRequest{Page: 0, Size: domain.DefaultPageSize}).
		Return([]domain.HouseMember{{ID: "m1"}, {ID: "m2"}}, int64(2), nil)

	members, info, err := svc.ListHousemates(ctx, &auth.Principal{Subject: ann.Email}, ann.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, 1, info.TotalPages)

	_, _, err = svc.ListHousemates(ctx, &auth.Principal{Subject: bob.Email}, ann.ID, domain.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
