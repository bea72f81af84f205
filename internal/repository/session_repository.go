package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tot-logger/visit-log-api/internal/models"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
)

// SessionRepository stores each user's input draft in Redis. The draft is
// small and always read/written whole, matching its single-owner semantics.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

// Get loads the user's draft. ErrCacheMiss means no draft exists yet.
func (r *SessionRepository) Get(ctx context.Context, userID string) (*models.InputSession, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var session models.InputSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Save stores the draft whole, refreshing its TTL.
func (r *SessionRepository) Save(ctx context.Context, userID string, session *models.InputSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(userID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Delete drops the draft entirely.
func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
