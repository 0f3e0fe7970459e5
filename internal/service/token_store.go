package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued tokens so they can be revoked before they expire.
type TokenStore interface {
	Store(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error
	IsAccessValid(ctx context.Context, userID uuid.UUID, accessID string) (bool, error)
	// ConsumeRefresh deletes the refresh token and reports whether it existed.
	ConsumeRefresh(ctx context.Context, userID uuid.UUID, refreshID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, accessID, refreshID string) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, accessKey(userID, accessID), "valid", accessTTL)
	pipe.Set(ctx, refreshKey(userID, refreshID), "valid", refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	return nil
}

func (s *redisTokenStore) IsAccessValid(ctx context.Context, userID uuid.UUID, accessID string) (bool, error) {
	n, err := s.client.Exists(ctx, accessKey(userID, accessID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, refreshID string) (bool, error) {
	// DEL is atomic, so two concurrent refreshes cannot both succeed.
	n, err := s.client.Del(ctx, refreshKey(userID, refreshID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, userID uuid.UUID, accessID, refreshID string) error {
	keys := []string{accessKey(userID, accessID)}
	if refreshID != "" {
		keys = append(keys, refreshKey(userID, refreshID))
	}
	return s.client.Del(ctx, keys...).Err()
}
