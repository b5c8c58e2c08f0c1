package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/myhome/myhome-service/internal/domain"
)

// CommunityRepository persists communities and their administrators.
type CommunityRepository interface {
	Create(ctx context.Context, community *domain.Community) error
	GetByID(ctx context.Context, id string) (*domain.Community, error)
	List(ctx context.Context, page domain.PageRequest) ([]domain.Community, int64, error)
	Delete(ctx context.Context, id string) error
	AddAdmins(ctx context.Context, communityID string, userIDs []string) error
	RemoveAdmin(ctx context.Context, communityID, userID string) (bool, error)
	ListAdmins(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.User, int64, error)
}

type communityRepository struct {
	db DB
}

// NewCommunityRepository instantiates the repository.
func NewCommunityRepository(db DB) CommunityRepository {
	return &communityRepository{db: db}
}

const communitySelect = `
        SELECT c.id, c.name, c.district, c.created_at, c.updated_at,
               COALESCE(array_agg(ca.user_id::text ORDER BY ca.user_id) FILTER (WHERE ca.user_id IS NOT NULL), '{}')
        FROM communities c
        LEFT JOIN community_admins ca ON ca.community_id = c.id`

func (r *communityRepository) Create(ctx context.Context, community *domain.Community) error {
	const insertCommunity = `
        INSERT INTO communities (id, name, district)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertCommunity,
			community.ID,
			community.Name,
			community.District,
		).Scan(&community.CreatedAt, &community.UpdatedAt); err != nil {
			return fmt.Errorf("insert community: %w", err)
		}
		return insertAdmins(ctx, tx, community.ID, community.AdminIDs)
	})
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*domain.Community, error) {
	query := communitySelect + ` WHERE c.id = $1 GROUP BY c.id`

	var community domain.Community
	if err := scanCommunity(r.db.QueryRow(ctx, query, id), &community); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCommunityNotFound
		}
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, page domain.PageRequest) ([]domain.Community, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM communities`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count communities: %w", err)
	}

	query := communitySelect + ` GROUP BY c.id ORDER BY c.created_at, c.id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list communities: %w", err)
	}
	defer rows.Close()

	communities := make([]domain.Community, 0)
	for rows.Next() {
		var community domain.Community
		if err := scanCommunity(rows, &community); err != nil {
			return nil, 0, fmt.Errorf("scan community: %w", err)
		}
		communities = append(communities, community)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return communities, total, nil
}

func (r *communityRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM communities WHERE id=$1`, id)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrCommunityNotFound
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCommunityNotFound
	}
	return nil
}

func (r *communityRepository) AddAdmins(ctx context.Context, communityID string, userIDs []string) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		return insertAdmins(ctx, tx, communityID, userIDs)
	})
}

func (r *communityRepository) RemoveAdmin(ctx context.Context, communityID, userID string) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM community_admins WHERE community_id=$1 AND user_id=$2`,
		communityID, userID,
	)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *communityRepository) ListAdmins(ctx context.Context, communityID string, page domain.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM community_admins WHERE community_id=$1`, communityID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}

	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.email_confirmed, u.created_at, u.updated_at
        FROM users u
        JOIN community_admins ca ON ca.user_id = u.id
        WHERE ca.community_id = $1
        ORDER BY u.created_at, u.id
        LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, communityID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}
	admins, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

func insertAdmins(ctx context.Context, tx pgx.Tx, communityID string, userIDs []string) error {
	const query = `
        INSERT INTO community_admins (community_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`
	for _, userID := range userIDs {
		if _, err := tx.Exec(ctx, query, communityID, userID); err != nil {
			return fmt.Errorf("insert admin %s: %w", userID, err)
		}
	}
	return nil
}

func scanCommunity(row pgx.Row, community *domain.Community) error {
	return row.Scan(
		&community.ID,
		&community.Name,
		&community.District,
		&community.CreatedAt,
		&community.UpdatedAt,
		&community.AdminIDs,
	)
}
