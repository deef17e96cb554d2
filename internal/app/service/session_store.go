package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"bridge_quoter/internal/app/port"
)

// SessionStore hands out quote sessions to the presentation layer, keyed by
// an opaque id and evicted after a TTL of inactivity. Eviction lives here, at
// the shell boundary; the session itself knows nothing about lifetimes.
type SessionStore struct {
	logger   *zap.Logger
	sessions *cache.Cache
	factory  func() port.QuoteSession
}

// NewSessionStore creates a store evicting sessions idle for longer than ttl.
func NewSessionStore(ttl time.Duration, factory func() port.QuoteSession, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		logger:   logger.Named("SessionStore"),
		sessions: cache.New(ttl, ttl/2+time.Minute),
		factory:  factory,
	}
}

// Create makes a fresh session and returns its id.
func (s *SessionStore) Create() (string, port.QuoteSession) {
	id := newSessionID()
	session := s.factory()
	s.sessions.Set(id, session, cache.DefaultExpiration)
	s.logger.Info("Quote session created", zap.String("sessionID", id))
	return id, session
}

// Get returns the session for id, refreshing its TTL.
func (s *SessionStore) Get(id string) (port.QuoteSession, bool) {
	value, found := s.sessions.Get(id)
	if !found {
		return nil, false
	}
	session, ok := value.(port.QuoteSession)
	if !ok {
		return nil, false
	}
	s.sessions.Set(id, session, cache.DefaultExpiration)
	return session, true
}

func newSessionID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("session id entropy unavailable: %v", err))
	}
	return hex.EncodeToString(buf[:])
}
