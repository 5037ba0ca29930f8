package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	SessionCookie     = "session_id"
)

// SessionStore wraps Redis for session management.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// TTL is how long a new session stays valid.
func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create stores a new session mapping sessionID -> profileID.
func (s *SessionStore) Create(ctx context.Context, profileID string) (string, error) {
	sid := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+sid, profileID, s.ttl).Err()
	return sid, err
}

// Get returns the profileID for a session, or "" if not found / expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "session:"+sessionID).Err()
}
