package workflow

import (
	"testing"
	"time"

	"github.com/rms-collector/backend/internal/config"
)

func TestManagerCreateGetDelete(t *testing.T) {
	m := NewManager(config.DefaultWorkflow(), 0)

	w, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if w.ID == "" {
		t.Fatal("session created without an ID")
	}

	got, ok := m.Get(w.ID)
	if !ok || got != w {
		t.Fatal("Get did not return the created session")
	}
	if _, ok := m.Get("no-such-id"); ok {
		t.Error("Get returned a session for an unknown ID")
	}

	if !m.Delete(w.ID) {
		t.Error("Delete returned false for an existing session")
	}
	if m.Delete(w.ID) {
		t.Error("Delete returned true for an already deleted session")
	}
}

func TestManagerGetTouchesKeepAlive(t *testing.T) {
	m := NewManager(config.DefaultWorkflow(), 0)

	w, _ := m.Create()
	stale := time.Now().Add(-2 * time.Hour)
	w.LastAccessed = stale

	m.Get(w.ID)
	if !w.LastAccessed.After(stale) {
		t.Error("Get did not refresh LastAccessed")
	}
}

func TestManagerCleanupSkipsBusySessions(t *testing.T) {
	m := NewManager(config.DefaultWorkflow(), 0)

	idle, _ := m.Create()
	busy, _ := m.Create()
	idle.LastAccessed = time.Now().Add(-2 * time.Hour)
	busy.LastAccessed = time.Now().Add(-2 * time.Hour)

	if err := busy.BeginSubmit("map"); err != nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}

	m.CleanupOldWorkflows(time.Hour)

	if _, ok := m.Get(idle.ID); ok {
		t.Error("aged idle session survived cleanup")
	}
	if _, ok := m.Get(busy.ID); !ok {
		t.Error("session with a submission in flight was cleaned up")
	}
}

func TestManagerEvictsAtCapacity(t *testing.T) {
	m := NewManager(config.DefaultWorkflow(), 2)

	first, _ := m.Create()
	first.LastAccessed = time.Now().Add(-time.Hour)
	second, _ := m.Create()
	third, err := m.Create()
	if err != nil {
		t.Fatalf("Create at capacity failed: %v", err)
	}

	if _, ok := m.Get(first.ID); ok {
		t.Error("least recently used session was not evicted")
	}
	for _, w := range []*Session{second, third} {
		if _, ok := m.Get(w.ID); !ok {
			t.Errorf("session %s should have survived eviction", w.ID[:8])
		}
	}
}
