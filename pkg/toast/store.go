package toast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/redis"
)

// sessionKeyTTL keeps undrained toasts around long enough for a slow poll
// cycle without letting dead sessions accumulate
const sessionKeyTTL = time.Hour

// Store mirrors toasts into redis per session so the SPA can drain them on its
// polling cycle
type Store struct {
	redis *redis.Client
}

// NewStore creates a session-scoped toast store
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

// mirrorSet tracks which queue IDs were already pushed to redis, so replayed
// snapshots don't mirror the same toast twice
type mirrorSet struct {
	seen map[string]bool
}

func newMirrorSet() *mirrorSet {
	return &mirrorSet{seen: make(map[string]bool)}
}

// fresh returns the session-bound toasts not mirrored yet and marks them.
// IDs absent from the snapshot have expired and can never repeat, so the set
// stays bounded by the live queue.
func (m *mirrorSet) fresh(snapshot []Toast) []Toast {
	var out []Toast
	live := make(map[string]bool, len(snapshot))
	for _, t := range snapshot {
		live[t.ID] = true
		if m.seen[t.ID] || t.SessionID == "" {
			continue
		}
		m.seen[t.ID] = true
		out = append(out, t)
	}

	for id := range m.seen {
		if !live[id] {
			delete(m.seen, id)
		}
	}
	return out
}

// Attach subscribes the store to a queue; every published toast is pushed to
// its session's list. Returns the unsubscribe function.
func (s *Store) Attach(q *Queue) func() {
	mirrored := newMirrorSet()
	return q.Subscribe(func(toasts []Toast) {
		for _, t := range mirrored.fresh(toasts) {
			// Mirror writes are best-effort; drain is a convenience channel
			_ = s.push(context.Background(), t)
		}
	})
}

func (s *Store) push(ctx context.Context, t Toast) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	key := sessionKey(t.SessionID)
	if err := s.redis.RPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	return s.redis.Expire(ctx, key, sessionKeyTTL).Err()
}

// Drain returns and removes all pending toasts for a session
func (s *Store) Drain(ctx context.Context, sessionID string) ([]Toast, error) {
	key := sessionKey(sessionID)

	raw, err := s.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []Toast{}, nil
	}
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return nil, err
	}

	toasts := make([]Toast, 0, len(raw))
	for _, item := range raw {
		var t Toast
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue
		}
		toasts = append(toasts, t)
	}
	return toasts, nil
}

func sessionKey(sessionID string) string {
	return "toasts:" + sessionID
}
