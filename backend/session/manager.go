package session

import "sync"

type sessionKey struct {
	userID   uint
	lessonID uint
}

// Manager tracks the live session per (user, lesson). A single view is
// active per pair at a time; opening again replaces the previous session.
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[sessionKey]*Session)}
}

func (m *Manager) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey{s.UserID, s.LessonID}] = s
}

func (m *Manager) Get(userID, lessonID uint) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{userID, lessonID}]
	return s, ok
}

// Close discards the session; in-flight writes already handed to the store
// are allowed to finish on their own.
func (m *Manager) Close(userID, lessonID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey{userID, lessonID})
}
