package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/myhome/myhome-service/internal/domain"
)

// HouseRepository persists community houses and the members listed on them.
type HouseRepository interface {
	AddHouses(ctx context.Context, houses []domain.House) error
	GetByID(ctx context.Context, id string) (*domain.House, error)
	List(ctx context.Context, page domain.PageRequest) ([]domain.House, int64, error)
	ListByCommunity(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.House, int64, error)
	Remove(ctx context.Context, communityID, houseID string) (bool, error)
	AddMembers(ctx context.Context, members []domain.HouseMember) error
	ListMembers(ctx context.Context, houseID string, page domain.PageRequest) ([]domain.HouseMember, int64, error)
	RemoveMember(ctx context.Context, houseID, memberID string) (bool, error)
	ListMembersByAdmin(ctx context.Context, userID string, page domain.PageRequest) ([]domain.HouseMember, int64, error)
}

type houseRepository struct {
	db DB
}

// NewHouseRepository instantiates the repository.
func NewHouseRepository(db DB) HouseRepository {
	return &houseRepository{db: db}
}

const (
	houseColumns  = `h.id, h.community_id, h.name, h.created_at, h.updated_at`
	memberColumns = `m.id, m.house_id, m.name, m.created_at`
)

func (r *houseRepository) AddHouses(ctx context.Context, houses []domain.House) error {
	const query = `
        INSERT INTO houses (id, community_id, name)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		for i := range houses {
			h := &houses[i]
			if err := tx.QueryRow(ctx, query, h.ID, h.CommunityID, h.Name).Scan(&h.CreatedAt, &h.UpdatedAt); err != nil {
				return fmt.Errorf("insert house %s: %w", h.Name, err)
			}
		}
		return nil
	})
}

func (r *houseRepository) GetByID(ctx context.Context, id string) (*domain.House, error) {
	query := `SELECT ` + houseColumns + ` FROM houses h WHERE h.id = $1`

	var house domain.House
	if err := scanHouse(r.db.QueryRow(ctx, query, id), &house); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrHouseNotFound
		}
		return nil, err
	}
	return &house, nil
}

func (r *houseRepository) List(ctx context.Context, page domain.PageRequest) ([]domain.House, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM houses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count houses: %w", err)
	}

	query := `SELECT ` + houseColumns + ` FROM houses h ORDER BY h.created_at, h.id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list houses: %w", err)
	}
	houses, err := collectHouses(rows)
	if err != nil {
		return nil, 0, err
	}
	return houses, total, nil
}

func (r *houseRepository) ListByCommunity(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.House, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM houses WHERE community_id=$1`, communityID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count houses: %w", err)
	}

	query := `SELECT ` + houseColumns + ` FROM houses h
        WHERE h.community_id = $1
        ORDER BY h.created_at, h.id
        LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, communityID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list community houses: %w", err)
	}
	houses, err := collectHouses(rows)
	if err != nil {
		return nil, 0, err
	}
	return houses, total, nil
}

func (r *houseRepository) Remove(ctx context.Context, communityID, houseID string) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM houses WHERE community_id=$1 AND id=$2`,
		communityID, houseID,
	)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *houseRepository) AddMembers(ctx context.Context, members []domain.HouseMember) error {
	const query = `
        INSERT INTO house_members (id, house_id, name)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		for i := range members {
			m := &members[i]
			if err := tx.QueryRow(ctx, query, m.ID, m.HouseID, m.Name).Scan(&m.CreatedAt); err != nil {
				return fmt.Errorf("insert member %s: %w", m.Name, err)
			}
		}
		return nil
	})
}

func (r *houseRepository) ListMembers(ctx context.Context, houseID string, page domain.PageRequest) ([]domain.HouseMember, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM house_members WHERE house_id=$1`, houseID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	query := `SELECT ` + memberColumns + ` FROM house_members m
        WHERE m.house_id = $1
        ORDER BY m.created_at, m.id
        LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, houseID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	members, err := collectMembers(rows)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *houseRepository) RemoveMember(ctx context.Context, houseID, memberID string) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM house_members WHERE house_id=$1 AND id=$2`,
		houseID, memberID,
	)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// ListMembersByAdmin lists the members of every house in the communities userID administers.
func (r *houseRepository) ListMembersByAdmin(ctx context.Context, userID string, page domain.PageRequest) ([]domain.HouseMember, int64, error) {
	const from = `
        FROM house_members m
        JOIN houses h ON h.id = m.house_id
        JOIN community_admins ca ON ca.community_id = h.community_id
        WHERE ca.user_id = $1`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count housemates: %w", err)
	}

	query := `SELECT ` + memberColumns + from + `
        ORDER BY m.created_at, m.id
        LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list housemates: %w", err)
	}
	members, err := collectMembers(rows)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func scanHouse(row pgx.Row, house *domain.House) error {
	return row.Scan(&house.ID, &house.CommunityID, &house.Name, &house.CreatedAt, &house.UpdatedAt)
}

func collectHouses(rows pgx.Rows) ([]domain.House, error) {
	defer rows.Close()
	houses := make([]domain.House, 0)
	for rows.Next() {
		var house domain.House
		if err := scanHouse(rows, &house); err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		houses = append(houses, house)
	}
	return houses, rows.Err()
}

func collectMembers(rows pgx.Rows) ([]domain.HouseMember, error) {
	defer rows.Close()
	members := make([]domain.HouseMember, 0)
	for rows.Next() {
		var m domain.HouseMember
		if err := rows.Scan(&m.ID, &m.HouseID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
