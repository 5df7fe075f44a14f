package repository

import (
	"sync"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/menu/domain"
)

// Memory is the in-process session registry. Sessions are ephemeral and never
// persisted; a process restart drops them all.
type Memory struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

// NewMemory creates an empty session registry
func NewMemory() *Memory {
	return &Memory{sessions: make(map[int64]*domain.Session)}
}

func (m *Memory) Get(userID int64) (*domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	return session, ok
}

func (m *Memory) Put(session *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = session
}

func (m *Memory) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
