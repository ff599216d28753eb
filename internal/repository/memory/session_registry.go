package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// LiveSession is the in-memory record of one active chat connection.
// The authoritative rolling context lives in Redis; this registry only
// tracks who is connected for the stats endpoint.
type LiveSession struct {
	ID          string    `json:"id"`
	ConnectedAt time.Time `json:"connected_at"`
	Turns       int       `json:"turns"`
}

type SessionRegistry struct {
	cache *cache.Cache
}

func NewSessionRegistry() *SessionRegistry {
	// Default expiration of 1 hour guards against leaked entries from
	// connections that died without a clean teardown; purge every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRegistry{
		cache: c,
	}
}

// Save stores a copy of the session. Callers update live sessions from the
// connection goroutine while the stats endpoint reads concurrently, so the
// registry never shares pointers with either side.
func (r *SessionRegistry) Save(session *LiveSession) {
	stored := *session
	r.cache.Set(session.ID, &stored, cache.DefaultExpiration)
}

func (r *SessionRegistry) Get(sessionID string) (*LiveSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		s := *x.(*LiveSession)
		return &s, true
	}
	return nil, false
}

func (r *SessionRegistry) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRegistry) List() []*LiveSession {
	items := r.cache.Items()
	sessions := make([]*LiveSession, 0, len(items))
	for _, item := range items {
		if s, ok := item.Object.(*LiveSession); ok {
			c := *s
			sessions = append(sessions, &c)
		}
	}
	return sessions
}
