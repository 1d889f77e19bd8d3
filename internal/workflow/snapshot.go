package workflow

import "github.com/rms-collector/backend/internal/models"

// SlotSnapshot is the externally visible state of one slot.
type SlotSnapshot struct {
	Name        string           `json:"name" msgpack:"name"`
	Section     string           `json:"section" msgpack:"section"`
	Satellite   string           `json:"satellite,omitempty" msgpack:"satellite,omitempty"`
	Required    bool             `json:"required" msgpack:"required"`
	Enabled     bool             `json:"enabled" msgpack:"enabled"`
	File        *models.FileInfo `json:"file,omitempty" msgpack:"file,omitempty"`
	RecordCount int              `json:"recordCount" msgpack:"recordCount"`
}

// SectionSnapshot is the externally visible state of one section.
type SectionSnapshot struct {
	Name      string `json:"name" msgpack:"name"`
	Required  bool   `json:"required" msgpack:"required"`
	Enabled   bool   `json:"enabled" msgpack:"enabled"`
	Uploaded  bool   `json:"uploaded" msgpack:"uploaded"`
	RootSlot  string `json:"rootSlot,omitempty" msgpack:"rootSlot,omitempty"`
	DependsOn string `json:"dependsOn,omitempty" msgpack:"dependsOn,omitempty"`
}

// Snapshot is a point-in-time copy of the workflow state for transport.
type Snapshot struct {
	WorkflowID string                 `json:"workflowId" msgpack:"workflowId"`
	Contact    models.ContactDetails  `json:"contact" msgpack:"contact"`
	Sections   []SectionSnapshot      `json:"sections" msgpack:"sections"`
	Slots      []SlotSnapshot         `json:"slots" msgpack:"slots"`
}

// snapshot builds a Snapshot from the current state. Callers hold the
// session lock.
func (st *State) snapshot(workflowID string) *Snapshot {
	snap := &Snapshot{
		WorkflowID: workflowID,
		Contact:    st.Contact,
		Sections:   make([]SectionSnapshot, 0, len(st.sectionOrder)),
		Slots:      make([]SlotSnapshot, 0, len(st.slotOrder)),
	}
	for _, name := range st.sectionOrder {
		sec := st.sections[name]
		snap.Sections = append(snap.Sections, SectionSnapshot{
			Name:      sec.Name,
			Required:  sec.Required,
			Enabled:   sec.Enabled,
			Uploaded:  sec.Uploaded,
			RootSlot:  sec.RootSlot,
			DependsOn: sec.DependsOn,
		})
	}
	for _, name := range st.slotOrder {
		slot := st.slots[name]
		snap.Slots = append(snap.Slots, SlotSnapshot{
			Name:        slot.Name,
			Section:     slot.Section,
			Satellite:   slot.Satellite,
			Required:    slot.Required,
			Enabled:     slot.Enabled,
			File:        slot.File,
			RecordCount: st.store.Len(slot.Name),
		})
	}
	return snap
}
