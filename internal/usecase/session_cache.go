package usecase

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionCacheData is the previous turn's retrieval snapshot for one session.
type SessionCacheData struct {
	ContextText string
	Pages       []int
	Question    string
	Answer      string
	CreatedAt   time.Time
}

// SessionCache reuses the previous turn's retrieved context for fast
// conversational follow-ups. Entries are keyed by a caller-supplied session
// identifier; the TTL is re-checked at read time so a stale entry is never
// returned even if eviction lags.
type SessionCache struct {
	lru *expirable.LRU[string, SessionCacheData]
	ttl time.Duration
	now func() time.Time
}

// NewSessionCache creates a cache holding up to size sessions with the given
// TTL.
func NewSessionCache(size int, ttl time.Duration) *SessionCache {
	return &SessionCache{
		lru: expirable.NewLRU[string, SessionCacheData](size, nil, ttl),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached snapshot for a session, or false when absent or
// older than the TTL.
func (c *SessionCache) Get(sessionID string) (SessionCacheData, bool) {
	if sessionID == "" {
		return SessionCacheData{}, false
	}
	data, ok := c.lru.Get(sessionID)
	if !ok {
		return SessionCacheData{}, false
	}
	if c.now().Sub(data.CreatedAt) > c.ttl {
		c.lru.Remove(sessionID)
		return SessionCacheData{}, false
	}
	return data, true
}

// Put overwrites the session's snapshot after a successful top-level answer.
func (c *SessionCache) Put(sessionID string, data SessionCacheData) {
	if sessionID == "" {
		return
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = c.now()
	}
	c.lru.Add(sessionID, data)
}
