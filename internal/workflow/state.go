package workflow

import (
	"fmt"

	"github.com/rms-collector/backend/internal/config"
	"github.com/rms-collector/backend/internal/models"
)

// Slot is the runtime state of one uploadable dataset. Slots are created at
// configuration time and never destroyed, only emptied.
type Slot struct {
	Name      string
	Section   string // owning section
	Satellite string // satellite group within the section, "" for regular slots
	Required  bool
	Enabled   bool
	File      *models.FileInfo // nil when no file is assigned
}

// Filled reports whether the slot currently has an ingested file.
func (s *Slot) Filled() bool {
	return s.File != nil
}

// Section is the runtime state of one submittable slot group.
type Section struct {
	Name      string
	Required  bool
	Enabled   bool
	Uploaded  bool // confirmed by a success response from the remote service
	RootSlot  string
	DependsOn string
	Slots     []string            // declaration order, excluding satellites
	Satellite map[string][]string // group name -> slot names
}

// ErrSlotDisabled is returned when a mutation targets a slot that is not
// currently open for upload.
type ErrSlotDisabled struct {
	Slot string
}

func (e *ErrSlotDisabled) Error() string {
	return fmt.Sprintf("slot %q is not enabled", e.Slot)
}

// ErrUnknownSlot is returned when a mutation targets a slot that does not
// exist in the workflow layout.
type ErrUnknownSlot struct {
	Slot string
}

func (e *ErrUnknownSlot) Error() string {
	return fmt.Sprintf("unknown slot %q", e.Slot)
}

// State is the complete mutable workflow state: contact details, slot and
// section flags, and the record store. All mutation goes through explicit
// methods; every mutation is followed synchronously by Recompute before
// control returns to the caller, so observers never see a disabled slot
// holding records or an enabled dependent without its parent.
type State struct {
	Contact models.ContactDetails

	slots        map[string]*Slot
	sections     map[string]*Section
	sectionOrder []string
	slotOrder    []string

	store *Store
	graph *Graph
}

// NewState builds the initial workflow state from the layout and runs the
// first enablement recompute.
func NewState(cfg config.WorkflowConfig) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	graph, err := NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	st := &State{
		slots:    make(map[string]*Slot),
		sections: make(map[string]*Section),
		store:    NewStore(),
		graph:    graph,
	}

	for _, sc := range cfg.Sections {
		sec := &Section{
			Name:      sc.Name,
			Required:  sc.Required,
			RootSlot:  sc.RootSlot,
			DependsOn: sc.DependsOn,
			Satellite: make(map[string][]string),
		}
		for _, slc := range sc.Slots {
			st.addSlot(&Slot{Name: slc.Name, Section: sc.Name, Required: slc.Required})
			sec.Slots = append(sec.Slots, slc.Name)
		}
		for group, slots := range sc.Satellites {
			for _, slc := range slots {
				st.addSlot(&Slot{Name: slc.Name, Section: sc.Name, Satellite: group, Required: slc.Required})
				sec.Satellite[group] = append(sec.Satellite[group], slc.Name)
			}
		}
		st.sections[sec.Name] = sec
		st.sectionOrder = append(st.sectionOrder, sec.Name)
	}

	st.Recompute()
	return st, nil
}

func (st *State) addSlot(s *Slot) {
	st.slots[s.Name] = s
	st.slotOrder = append(st.slotOrder, s.Name)
}

// Slot returns the runtime state for a slot name.
func (st *State) Slot(name string) (*Slot, bool) {
	s, ok := st.slots[name]
	return s, ok
}

// Section returns the runtime state for a section name.
func (st *State) Section(name string) (*Section, bool) {
	s, ok := st.sections[name]
	return s, ok
}

// Records returns the current record sequence for a slot.
func (st *State) Records(slot string) ([]models.Record, bool) {
	return st.store.Get(slot)
}

// AttachFile assigns a file and its decoded records to a slot. The slot
// must be enabled; enablement itself is recomputed by the caller as a
// separate, explicit step, never as a side effect of ingestion.
func (st *State) AttachFile(slot string, info *models.FileInfo, records []models.Record) error {
	s, ok := st.slots[slot]
	if !ok {
		return &ErrUnknownSlot{Slot: slot}
	}
	if !s.Enabled {
		return &ErrSlotDisabled{Slot: slot}
	}
	s.File = info
	st.store.Put(slot, records)
	return nil
}

// RemoveFile clears a slot's file and records, transitively empties every
// dependent slot reachable from it, and recomputes enablement. The root
// slot itself returns to its base enabled state.
func (st *State) RemoveFile(slot string) error {
	s, ok := st.slots[slot]
	if !ok {
		return &ErrUnknownSlot{Slot: slot}
	}
	s.File = nil
	st.store.Remove(slot)
	st.clearDependents(slot)
	st.Recompute()
	return nil
}

// clearDependents empties every slot reachable via dependency edges from
// the given slot, depth first.
func (st *State) clearDependents(slot string) {
	for _, e := range st.graph.ChildrenOf(slot) {
		child := st.slots[e.Child]
		if child == nil {
			continue
		}
		child.File = nil
		st.store.Remove(e.Child)
		st.clearDependents(e.Child)
	}
}

// MarkUploaded records the confirmed-upload flag for a section and
// recomputes enablement.
func (st *State) MarkUploaded(section string, uploaded bool) {
	if sec, ok := st.sections[section]; ok {
		sec.Uploaded = uploaded
	}
	st.Recompute()
}
