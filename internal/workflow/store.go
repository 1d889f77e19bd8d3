package workflow

import "github.com/rms-collector/backend/internal/models"

// Store holds the ingested record sequences per data slot. It performs no
// validation of record shape; that is the backend's responsibility. It is
// not internally synchronized: all access goes through the owning Session,
// whose lock covers every mutation together with the enablement recompute
// that must follow it.
type Store struct {
	records map[string][]models.Record
}

// NewStore creates an empty record store.
func NewStore() *Store {
	return &Store{records: make(map[string][]models.Record)}
}

// Put replaces the record sequence for a slot wholesale.
func (s *Store) Put(slot string, records []models.Record) {
	s.records[slot] = records
}

// Remove clears the record sequence for a slot. It never cascades by
// itself; cascading is orchestrated by the enablement recompute reacting
// to slot removal.
func (s *Store) Remove(slot string) {
	delete(s.records, slot)
}

// Get returns the current record sequence for a slot, or false when absent.
func (s *Store) Get(slot string) ([]models.Record, bool) {
	records, ok := s.records[slot]
	return records, ok
}

// Len returns the number of records held for a slot.
func (s *Store) Len(slot string) int {
	return len(s.records[slot])
}
