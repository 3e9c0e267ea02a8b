package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/models"
)

const sessionKeyPrefix = "admin-platform:session:"

// SessionStore keeps the authenticated admin user server-side, keyed by the
// session id baked into the access token. Clearing a session revokes the
// token before it expires.
type SessionStore interface {
	Store(ctx context.Context, sessionID string, user *models.AdminUser) error
	Get(ctx context.Context, sessionID string) (*models.AdminUser, error)
	Clear(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(addr, password string, db int, ttl time.Duration) SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisSessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *redisSessionStore) Store(ctx context.Context, sessionID string, user *models.AdminUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (*models.AdminUser, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	user := &models.AdminUser{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("unmarshal session user: %w", err)
	}
	return user, nil
}

func (s *redisSessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
