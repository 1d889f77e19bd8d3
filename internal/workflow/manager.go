package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rms-collector/backend/internal/config"
)

// DefaultMaxWorkflows limits concurrent workflow sessions to prevent
// memory exhaustion.
const DefaultMaxWorkflows = 20

// Manager owns the active workflow sessions.
type Manager struct {
	mu        sync.RWMutex
	workflows map[string]*Session
	layout    config.WorkflowConfig
	maxActive int
}

// NewManager creates a workflow session manager for the given layout.
func NewManager(layout config.WorkflowConfig, maxActive int) *Manager {
	if maxActive <= 0 {
		maxActive = DefaultMaxWorkflows
	}
	return &Manager{
		workflows: make(map[string]*Session),
		layout:    layout,
		maxActive: maxActive,
	}
}

// Create starts a new workflow session with a fresh state.
func (m *Manager) Create() (*Session, error) {
	m.cleanupIfAtCapacity()

	state, err := NewState(m.layout)
	if err != nil {
		return nil, fmt.Errorf("build workflow state: %w", err)
	}

	now := time.Now()
	w := &Session{
		ID:           uuid.New().String(),
		CreatedAt:    now,
		LastAccessed: now,
		state:        state,
	}

	m.mu.Lock()
	m.workflows[w.ID] = w
	m.mu.Unlock()

	return w, nil
}

// Get returns a workflow session by ID and refreshes its keep-alive stamp.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workflows[id]
	if !ok {
		return nil, false
	}
	w.LastAccessed = time.Now()
	return w, true
}

// Delete removes a workflow session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workflows[id]; !ok {
		return false
	}
	delete(m.workflows, id)
	return true
}

// CleanupOldWorkflows removes sessions that have not been touched within
// maxAge. Sessions with a submission in flight are kept.
func (m *Manager) CleanupOldWorkflows(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, w := range m.workflows {
		w.mu.Lock()
		busy := w.submitting
		w.mu.Unlock()
		if busy {
			continue
		}
		if w.LastAccessed.Before(cutoff) {
			delete(m.workflows, id)
			fmt.Printf("[Manager] Cleaned up aged workflow %s (last accessed %s ago)\n",
				id[:8], time.Since(w.LastAccessed).Round(time.Second))
		}
	}
}

// cleanupIfAtCapacity drops the least recently used idle sessions when the
// session map is full.
func (m *Manager) cleanupIfAtCapacity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.workflows) < m.maxActive {
		return
	}

	toFree := len(m.workflows) - m.maxActive + 1
	for freed := 0; freed < toFree; {
		var oldest *Session
		for _, w := range m.workflows {
			w.mu.Lock()
			busy := w.submitting
			w.mu.Unlock()
			if busy {
				continue
			}
			if oldest == nil || w.LastAccessed.Before(oldest.LastAccessed) {
				oldest = w
			}
		}
		if oldest == nil {
			return
		}
		delete(m.workflows, oldest.ID)
		freed++
		fmt.Printf("[Manager] Evicted workflow %s to free capacity\n", oldest.ID[:8])
	}
}
