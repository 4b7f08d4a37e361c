package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/redis"
)

const sessionKeyPrefix = "session:"

// Store keeps operator sessions in redis with the session TTL
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore builds a session store
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redisClient, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Save writes a session, resetting its TTL
func (s *Store) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.redis.SetWithExpiration(ctx, sessionKey(session.ID), payload, s.ttl)
}

// Get loads a session; a missing or corrupt entry reads as an expired session
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := s.redis.GetString(ctx, sessionKey(sessionID))
	if err == goredis.Nil {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, common.ErrUnauthorized
	}
	return &session, nil
}

// UpstreamToken satisfies middleware.SessionLoader
func (s *Store) UpstreamToken(ctx context.Context, sessionID string) (string, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

// Destroy drops a session
func (s *Store) Destroy(ctx context.Context, sessionID string) error {
	return s.redis.Delete(ctx, sessionKey(sessionID))
}
