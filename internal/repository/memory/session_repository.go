package memory

import (
	"time"

	"b2b-catalog-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the default single-instance session store. Sessions
// idle past the TTL are purged; the customer simply starts over.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.ConversationSession) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(sessionID string) (*store.ConversationSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.ConversationSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
