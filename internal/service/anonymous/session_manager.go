package anonymous

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]time.Time
}

func newSessionManager() *sessionManager {
	return &sessionManager{
		sessions: make(map[string]time.Time),
	}
}

func (m *sessionManager) Issue(expiresAt time.Time) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.sessions[id.String()] = expiresAt
	m.mu.Unlock()
	return id.String(), nil
}

// Touch extends a live session. Expired ids stay until Sweep reports them.
func (m *sessionManager) Touch(id string, now time.Time, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiresAt, ok := m.sessions[id]
	if !ok {
		return false
	}
	if now.After(expiresAt) {
		return false
	}
	m.sessions[id] = now.Add(ttl)
	return true
}

func (m *sessionManager) Sweep(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []string
	for id, expiresAt := range m.sessions {
		if now.After(expiresAt) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	return expired
}
