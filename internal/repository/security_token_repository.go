package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myhome/myhome-service/internal/domain"
)

const securityTokenKeyPrefix = "myhome:security-token:"

// SecurityTokenRepository stores single-use tokens in Redis; expiry is enforced by key TTL.
type SecurityTokenRepository interface {
	Save(ctx context.Context, token *domain.SecurityToken) error
	Get(ctx context.Context, tokenType domain.SecurityTokenType, token string) (*domain.SecurityToken, error)
	// Consume deletes the token and reports whether this call was the one that removed it.
	Consume(ctx context.Context, tokenType domain.SecurityTokenType, token string) (bool, error)
}

type securityTokenRepository struct {
	client redis.UniversalClient
}

// NewSecurityTokenRepository builds a Redis-backed token store.
func NewSecurityTokenRepository(client redis.UniversalClient) SecurityTokenRepository {
	return &securityTokenRepository{client: client}
}

type storedSecurityToken struct {
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Save keys the token for its lifetime, ExpiresAt minus CreatedAt. Both come from the
// issuer's clock, so the store never compares them against its own.
func (r *securityTokenRepository) Save(ctx context.Context, token *domain.SecurityToken) error {
	ttl := token.ExpiresAt.Sub(token.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("security token lifetime must be positive, got %s", ttl)
	}

	payload, err := json.Marshal(storedSecurityToken{
		OwnerID:   token.OwnerID,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, securityTokenKey(token.Type, token.Token), payload, ttl).Err()
}

func (r *securityTokenRepository) Get(ctx context.Context, tokenType domain.SecurityTokenType, token string) (*domain.SecurityToken, error) {
	raw, err := r.client.Get(ctx, securityTokenKey(tokenType, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var stored storedSecurityToken
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode security token: %w", err)
	}
	return &domain.SecurityToken{
		Type:      tokenType,
		Token:     token,
		OwnerID:   stored.OwnerID,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

func (r *securityTokenRepository) Consume(ctx context.Context, tokenType domain.SecurityTokenType, token string) (bool, error) {
	deleted, err := r.client.Del(ctx, securityTokenKey(tokenType, token)).Result()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func securityTokenKey(tokenType domain.SecurityTokenType, token string) string {
	return securityTokenKeyPrefix + string(tokenType) + ":" + token
}
