package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhome/myhome-service/internal/domain"
)

var (
	houseRowColumns  = []string{"id", "community_id", "name", "created_at", "updated_at"}
	memberRowColumns = []string{"id", "house_id", "name", "created_at"}
)

func newHouseMock(t *testing.T) (pgxmock.PgxPoolIface, HouseRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewHouseRepository(mock)
}

func TestHouseRepository_AddHouses(t *testing.T) {
	mock, repo := newHouseMock(t)
	now := time.Now()
	houses := []domain.House{
		{ID: "h1", CommunityID: "c1", Name: "No. 1"},
		{ID: "h2", CommunityID: "c1", Name: "No. 2"},
	}

	mock.ExpectBegin()
	for _, h := range houses {
		mock.ExpectQuery("INSERT INTO houses").
			WithArgs(h.ID, "c1", h.Name).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.AddHouses(context.Background(), houses))
	assert.Equal(t, now, houses[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseRepository_AddHouses_RollsBack(t *testing.T) {
	mock, repo := newHouseMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO houses").
		WithArgs("h1", "c1", "No. 1").
		WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.AddHouses(context.Background(), []domain.House{{ID: "h1", CommunityID: "c1", Name: "No. 1"}})
	assert.ErrorContains(t, err, "insert house No. 1")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseRepository_GetByID(t *testing.T) {
	mock, repo := newHouseMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT h.id").
		WithArgs("h1").
		WillReturnRows(pgxmock.NewRows(houseRowColumns).AddRow("h1", "c1", "No. 1", now, now))
	mock.ExpectQuery("SELECT h.id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	house, err := repo.GetByID(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "c1", house.CommunityID)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrHouseNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseRepository_ListByCommunity(t *testing.T) {
	mock, repo := newHouseMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery("SELECT h.id").
		WithArgs("c1", 2, 2).
		WillReturnRows(pgxmock.NewRows(houseRowColumns).AddRow("h3", "c1", "No. 3", now, now))

	houses, total, err := repo.ListByCommunity(context.Background(), "c1", domain.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, houses, 1)
	assert.Equal(t, "h3", houses[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseRepository_Remove(t *testing.T) {
	mock, repo := newHouseMock(t)

	mock.ExpectExec("DELETE FROM houses").
		WithArgs("c1", "h1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM houses").
		WithArgs("c1", "h9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	removed, err := repo.Remove(context.Background(), "c1", "h1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(context.Background(), "c1", "h9")
	require.NoError(t, err)
	assert.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseRepository_Members(t *testing.T) {
	mock, repo := newHouseMock(t)
	now := time.Now()
	members := []domain.HouseMember{{ID: "m1", HouseID: "h1", Name: "Carol"}}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO house_members").
		WithArgs("m1", "h1", "Carol").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("h1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT m.id").
		WithArgs("h1", domain.DefaultPageSize, 0).
		WillReturnRows(pgxmock.NewRows(memberRowColumns).AddRow("m1", "h1", "Carol", now))
	mock.ExpectExec("DELETE FROM house_members").
		WithArgs("h1", "m1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	ctx := context.Background()
	require.NoError(t, repo.AddMembers(ctx, members))
	assert.Equal(t, now, members[0].CreatedAt)

	listed, total, err := repo.ListMembers(ctx, "h1", domain.PageRequest{Size: domain.DefaultPageSize})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, "Carol", listed[0].Name)

	removed, err := repo.RemoveMember(ctx, "h1", "m1")
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseRepository_ListMembersByAdmin(t *testing.T) {
	mock, repo := newHouseMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)\\s+FROM house_members m\\s+JOIN houses h").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery("(?s)SELECT m.id.*JOIN community_admins ca").
		WithArgs("u1", 10, 0).
		WillReturnRows(pgxmock.NewRows(memberRowColumns).
			AddRow("m1", "h1", "Carol", now).
			AddRow("m2", "h2", "Dave", now))

	members, total, err := repo.ListMembersByAdmin(context.Background(), "u1", domain.PageRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, members, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
