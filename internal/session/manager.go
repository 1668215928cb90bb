package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jonathan/team-interview/internal/presets"
)

// Manager holds independent sessions keyed by id
type Manager struct {
	deps    Dependencies
	presets *presets.Table

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions share deps. Seniority strings
// passed to CreateFor resolve through table.
func NewManager(deps Dependencies, table *presets.Table) *Manager {
	return &Manager{
		deps:     deps,
		presets:  table,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session for cfg
func (m *Manager) Create(cfg Config) (*Session, error) {
	s, err := New(cfg, m.deps)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// CreateFor registers a session using the preset for seniority. The
// Settings field of cfg is replaced.
func (m *Manager) CreateFor(seniority string, cfg Config) (*Session, error) {
	if m.presets == nil {
		return nil, fmt.Errorf("manager has no preset table")
	}
	cfg.Settings = m.presets.ForSeniority(seniority)
	return m.Create(cfg)
}

// Get returns the session with id
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove forgets the session with id
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// IDs returns the ids of every registered session, sorted
func (m *Manager) IDs() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Len returns the number of registered sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
