// Package session provides the Redis-backed session record store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carvalue_backend/internal/feature/auth/domain/entity"
	"carvalue_backend/internal/feature/auth/usecase"
)

// revokedRetention is how long revoked sessions are kept for auditing.
const revokedRetention = 24 * time.Hour

// SessionRedis implements usecase.SessionRepository using Redis.
// Expiry is enforced by the key TTL, so expired sessions disappear on
// their own.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

// Compile-time check to ensure SessionRedis implements SessionRepository.
var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

// sessionKey returns the Redis key for a session.
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Create persists a new session to Redis with a TTL matching its expiry.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	return r.client.Set(ctx, r.sessionKey(session.ID), data, ttl).Err()
}

// FindByID retrieves a session by its ID.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked. The record is kept for a short
// period so the revocation is observable, then dropped by TTL.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	session.RevokedAt = &now

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.sessionKey(id), data, revokedRetention).Err()
}

// DeleteExpired is a no-op: Redis drops expired sessions via key TTL.
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
