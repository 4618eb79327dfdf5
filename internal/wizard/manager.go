package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

// Manager keeps the live wizard sessions, one per participant. Sessions are
// in-memory only; a session idle past the TTL is swept away, which is the
// server-side equivalent of the participant closing the tab.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewManager creates a session manager with the given idle TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// GetOrCreate returns the participant's session, creating a fresh one at
// the intro step when none exists.
func (m *Manager) GetOrCreate(participantID string) *Session {
	m.mu.RLock()
	sess, ok := m.sessions[participantID]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[participantID]; ok {
		return sess
	}
	sess = NewSession(participantID)
	m.sessions[participantID] = sess
	slog.Info("Wizard session created", "session_id", participantID)
	return sess
}

// Get returns the participant's session, or nil when none exists.
func (m *Manager) Get(participantID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[participantID]
}

// Delete removes a participant's session.
func (m *Manager) Delete(participantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, participantID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper runs a background goroutine that periodically drops sessions
// idle past the TTL.
func (m *Manager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Wizard session sweeper started", "interval", sweepInterval, "ttl", m.ttl)

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-ctx.Done():
				slog.Info("Wizard session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	swept := 0
	for id, sess := range m.sessions {
		if sess.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			swept++
		}
	}
	if swept > 0 {
		slog.Info("Swept idle wizard sessions", "count", swept, "remaining", len(m.sessions))
	}
}
