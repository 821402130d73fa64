// Package storage keeps uploaded datasets in memory between HTTP requests.
package storage

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/lehigh-university-libraries/accessioner/internal/models"
)

// DefaultMaxSessions bounds how many uploaded datasets are held at once.
const DefaultMaxSessions = 32

type SessionStore struct {
	sessions map[string]*models.Session
	limit    int
	mu       sync.RWMutex
}

func New() *SessionStore {
	return NewWithLimit(DefaultMaxSessions)
}

// NewWithLimit returns a store that evicts the oldest session once more than
// limit are held. A limit below 1 disables eviction.
func NewWithLimit(limit int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.Session),
		limit:    limit,
	}
}

func (s *SessionStore) Get(sessionID string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session

	for s.limit > 0 && len(s.sessions) > s.limit {
		oldest := ""
		for id, candidate := range s.sessions {
			if id == sessionID {
				continue
			}
			if oldest == "" || candidate.CreatedAt.Before(s.sessions[oldest].CreatedAt) {
				oldest = id
			}
		}
		if oldest == "" {
			return
		}
		slog.Debug("Evicting session", "session_id", oldest)
		delete(s.sessions, oldest)
	}
}

// List returns every session, newest first.
func (s *SessionStore) List() []*models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	slices.SortFunc(result, func(a, b *models.Session) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
