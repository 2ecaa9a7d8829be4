// Package session keeps pipeline results in memory between requests. Nothing
// is persisted; a restart discards every session.
package session

import (
	"fmt"
	"sync"

	"boardroom/app"
	"boardroom/domain/core"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultMaxSessions is the store capacity used when none is configured
const DefaultMaxSessions = 100

// Session is one uploaded dataset and what the pipeline made of it
type Session struct {
	ID          core.SessionID `json:"session_id"`
	Name        string         `json:"name"`
	Fingerprint core.Hash      `json:"fingerprint"`
	CreatedAt   core.Timestamp `json:"created_at"`
	Result      *app.Result    `json:"result"`
}

// Store is a bounded, mutex guarded set of sessions kept in creation order.
// Creating a session beyond capacity evicts the oldest one.
type Store struct {
	mu        sync.RWMutex
	sessions  *orderedmap.OrderedMap[core.SessionID, *Session]
	max       int
	onDiscard func(*Session)
}

// Option configures a Store
type Option func(*Store)

// WithDiscardHook runs fn for every session that is deleted or evicted
func WithDiscardHook(fn func(*Session)) Option {
	return func(s *Store) { s.onDiscard = fn }
}

// NewStore creates an empty store holding at most maxSessions sessions. A
// non-positive maxSessions uses DefaultMaxSessions.
func NewStore(maxSessions int, opts ...Option) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	s := &Store{
		sessions: orderedmap.New[core.SessionID, *Session](),
		max:      maxSessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a result under a fresh session ID
func (s *Store) Create(name string, fingerprint core.Hash, res *app.Result) *Session {
	sess := &Session{
		ID:          core.NewSessionID(),
		Name:        name,
		Fingerprint: fingerprint,
		CreatedAt:   core.Now(),
		Result:      res,
	}
	var evicted []*Session
	s.mu.Lock()
	s.sessions.Set(sess.ID, sess)
	for s.sessions.Len() > s.max {
		oldest := s.sessions.Oldest()
		s.sessions.Delete(oldest.Key)
		evicted = append(evicted, oldest.Value)
	}
	s.mu.Unlock()
	for _, old := range evicted {
		s.discard(old)
	}
	return sess
}

// Get returns the session or an error matching core.ErrSessionNotFound
func (s *Store) Get(id core.SessionID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions.Get(id)
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return sess, nil
}

// Delete discards a session
func (s *Store) Delete(id core.SessionID) error {
	s.mu.Lock()
	sess, ok := s.sessions.Delete(id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	s.discard(sess)
	return nil
}

// List returns sessions oldest first
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, s.sessions.Len())
	for p := s.sessions.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// Len is the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions.Len()
}

func (s *Store) discard(sess *Session) {
	if s.onDiscard != nil {
		s.onDiscard(sess)
	}
}
