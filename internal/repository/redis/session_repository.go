package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"b2b-catalog-be/pkg/store"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "conversation:session:"

// SessionRepository keeps sessions in Redis so multiple API instances can
// serve the same conversation. Sessions are stored as JSON with a sliding
// TTL refreshed on every save.
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *SessionRepository) Save(session *store.ConversationSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Set(ctx, keyPrefix+session.ID, raw, r.ttl).Err()
}

func (r *SessionRepository) Get(sessionID string) (*store.ConversationSession, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	raw, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		return nil, false
	}
	var session store.ConversationSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, false
	}
	return &session, true
}

func (r *SessionRepository) Delete(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r.client.Del(ctx, keyPrefix+sessionID)
}
