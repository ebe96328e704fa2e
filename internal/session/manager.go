package session

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/nightroad/server/internal/store"
	"github.com/nightroad/server/internal/ws"
)

// Manager manages all active sessions, indexed by the owning client.
type Manager struct {
	sessions map[string]*Session // client ID -> session
	scores   store.Store
	mu       sync.RWMutex
}

// NewManager creates a new session manager. scores may be nil when the
// leaderboard is disabled.
func NewManager(scores store.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		scores:   scores,
	}
}

// Create builds a session for a client with a random road seed, replacing
// any previous session the client had.
func (m *Manager) Create(nickname string, client *ws.Client) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.sessions[client.ID]; ok {
		old.Stop()
	}

	s := New(nickname, rand.Int63(), client, m.scores)
	m.sessions[client.ID] = s
	slog.Info("session created", "session", s.ID, "player", nickname)
	return s
}

// Get returns the session owned by a client, or nil.
func (m *Manager) Get(clientID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[clientID]
}

// Remove stops and drops a client's session.
func (m *Manager) Remove(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[clientID]; ok {
		s.Stop()
		delete(m.sessions, clientID)
		slog.Info("session removed", "session", s.ID)
	}
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
