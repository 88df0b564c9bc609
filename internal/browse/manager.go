package browse

import (
	"log/slog"
	"sync"

	"github.com/rahulpattadi/toppers/internal/bank"
)

// SessionManager tracks live sessions per device and tab.
type SessionManager struct {
	mu     sync.RWMutex
	active map[string]map[string]*Session
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		active: make(map[string]map[string]*Session),
	}
}

// GetActive returns the live session for a device and tab.
func (m *SessionManager) GetActive(deviceID, sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sessions, ok := m.active[deviceID]; ok {
		return sessions[sessionID]
	}
	return nil
}

// Register adds a session. A session already open for the same tab is
// closed and replaced.
func (m *SessionManager) Register(s *Session) {
	m.mu.Lock()
	if _, exists := m.active[s.deviceID]; !exists {
		m.active[s.deviceID] = make(map[string]*Session)
	}
	existing := m.active[s.deviceID][s.sessionID]
	m.active[s.deviceID][s.sessionID] = s
	m.mu.Unlock()

	if existing != nil && existing != s {
		_ = existing.Close("session replaced")
	}
	slog.Info("Browse session registered", "device_id", s.deviceID, "session_id", s.sessionID)
}

// Unregister removes s if it is still the registered session for its tab.
func (m *SessionManager) Unregister(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessions, ok := m.active[s.deviceID]; ok {
		if current, exists := sessions[s.sessionID]; exists && current == s {
			delete(sessions, s.sessionID)
			if len(sessions) == 0 {
				delete(m.active, s.deviceID)
			}
			slog.Info("Browse session unregistered", "device_id", s.deviceID, "session_id", s.sessionID)
		}
	}
}

// CloseDevice terminates all live sessions of a device.
func (m *SessionManager) CloseDevice(deviceID string) {
	m.mu.Lock()
	sessions := m.active[deviceID]
	delete(m.active, deviceID)
	m.mu.Unlock()

	for sid, s := range sessions {
		_ = s.Close("session closed")
		slog.Info("Browse session closed", "device_id", deviceID, "session_id", sid)
	}
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, sessions := range m.active {
		n += len(sessions)
	}
	return n
}

// Broadcast pushes a newly loaded question set to every live session.
func (m *SessionManager) Broadcast(snap bank.Snapshot) {
	m.mu.RLock()
	targets := make([]*Session, 0, len(m.active))
	for _, sessions := range m.active {
		for _, s := range sessions {
			targets = append(targets, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range targets {
		if err := s.Reload(snap); err != nil {
			slog.Debug("Failed to push reload", "error", err, "device_id", s.deviceID, "session_id", s.sessionID)
		}
	}
	slog.Info("Question reload broadcast", "version", snap.Version, "sessions", len(targets))
}

// CloseAll terminates every live session.
func (m *SessionManager) CloseAll(reason string) {
	m.mu.Lock()
	active := m.active
	m.active = make(map[string]map[string]*Session)
	m.mu.Unlock()

	for _, sessions := range active {
		for _, s := range sessions {
			_ = s.Close(reason)
		}
	}
}
