package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/rms-collector/backend/internal/models"
)

// ErrUnknownSection is returned when an operation names a section that does
// not exist in the workflow layout.
type ErrUnknownSection struct {
	Section string
}

func (e *ErrUnknownSection) Error() string {
	return fmt.Sprintf("unknown section %q", e.Section)
}

// ErrSectionDisabled is returned when a submission targets a section whose
// upstream section has not been confirmed yet.
type ErrSectionDisabled struct {
	Section string
}

func (e *ErrSectionDisabled) Error() string {
	return fmt.Sprintf("section %q is not enabled", e.Section)
}

// ErrSubmissionInFlight is returned when a submission is initiated while
// another one is still pending.
var ErrSubmissionInFlight = fmt.Errorf("a submission is already in flight")

// Session is one user's workflow: the state plus the locks that keep every
// mutation-and-recompute step atomic to observers. At most one submission
// is in flight per session at any time.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastAccessed time.Time

	mu         sync.Mutex
	state      *State
	submitting bool
}

// SetContact replaces the shared contact-detail fields. Field validation
// runs at submit time, not here.
func (w *Session) SetContact(c models.ContactDetails) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Contact = c
}

// GateCheck reports whether a slot is currently open for ingestion,
// distinguishing an unmet confirmation precondition from plain disablement.
// It is a pre-decode check; AttachFile re-verifies under the same lock.
func (w *Session) GateCheck(slot string) (unconfirmedRoot bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.state.Slot(slot)
	if !ok {
		return false, &ErrUnknownSlot{Slot: slot}
	}
	if s.Enabled {
		return false, nil
	}
	if edge, ok := w.state.graph.ParentOf(slot); ok && edge.RequiresConfirmed {
		if parent, ok := w.state.Slot(edge.Parent); ok && parent.Filled() {
			if sec, ok := w.state.Section(s.Section); ok && !sec.Uploaded {
				return true, &ErrSlotDisabled{Slot: slot}
			}
		}
	}
	return false, &ErrSlotDisabled{Slot: slot}
}

// AttachFile assigns a decoded file to a slot and recomputes enablement.
func (w *Session) AttachFile(slot string, info *models.FileInfo, records []models.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.state.AttachFile(slot, info, records); err != nil {
		return err
	}
	w.state.Recompute()
	return nil
}

// RemoveFile clears a slot's file, cascades to its dependents, and
// recomputes enablement.
func (w *Session) RemoveFile(slot string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.RemoveFile(slot)
}

// Snapshot returns a point-in-time copy of the workflow state.
func (w *Session) Snapshot() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.snapshot(w.ID)
}

// BeginSubmit acquires the single-flight submission guard. The target
// section must exist and be enabled.
func (w *Session) BeginSubmit(section string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sec, ok := w.state.Section(section)
	if !ok {
		return &ErrUnknownSection{Section: section}
	}
	if !sec.Enabled {
		return &ErrSectionDisabled{Section: section}
	}
	if w.submitting {
		return ErrSubmissionInFlight
	}
	w.submitting = true
	return nil
}

// EndSubmit releases the single-flight guard. It is called in a defer by
// the orchestrator regardless of outcome, so the session can never stay
// perpetually busy after a failure.
func (w *Session) EndSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
}

// SubmissionView is a consistent read of everything the orchestrator needs
// to validate, scope, and build one section submission. Record sequences
// are referenced, not copied; slots are only ever replaced wholesale, so a
// sequence captured here stays intact for the duration of the call.
type SubmissionView struct {
	Contact          models.ContactDetails
	Section          string
	Uploaded         bool
	RootSlot         string
	RootFilled       bool
	MissingRequired  []string
	FilledSlots      []string // non-satellite slots with records, declaration order
	FilledDependents []string // filled slots that are dependents of the root
	FilledSatellites []string // filled satellite-group slots, group order
	Records          map[string][]models.Record
}

// SubmissionView captures the state needed for one section submission.
func (w *Session) SubmissionView(section string) (*SubmissionView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sec, ok := w.state.Section(section)
	if !ok {
		return nil, &ErrUnknownSection{Section: section}
	}

	view := &SubmissionView{
		Contact:  w.state.Contact,
		Section:  sec.Name,
		Uploaded: sec.Uploaded,
		RootSlot: sec.RootSlot,
		Records:  make(map[string][]models.Record),
	}

	for _, name := range sec.Slots {
		slot := w.state.slots[name]
		records, filled := w.state.store.Get(name)
		if slot.Required && !filled {
			view.MissingRequired = append(view.MissingRequired, name)
		}
		if !filled {
			continue
		}
		view.FilledSlots = append(view.FilledSlots, name)
		view.Records[name] = records
		if name == sec.RootSlot {
			view.RootFilled = true
		} else if edge, ok := w.state.graph.ParentOf(name); ok && edge.Parent == sec.RootSlot {
			view.FilledDependents = append(view.FilledDependents, name)
		}
	}

	for _, group := range sortedGroups(sec.Satellite) {
		for _, name := range sec.Satellite[group] {
			records, filled := w.state.store.Get(name)
			if !filled {
				continue
			}
			view.FilledSatellites = append(view.FilledSatellites, name)
			view.Records[name] = records
		}
	}

	return view, nil
}

// ApplyOutcome applies a submission outcome to the section. The uploaded
// flag only moves for submissions that carry the section's confirmation
// (full or root-only); a dependent-only or satellite-only failure must not
// retract a previously confirmed state.
func (w *Session) ApplyOutcome(section string, confirmable bool, result *models.SubmissionResult) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if confirmable {
		w.state.MarkUploaded(section, !result.Failed())
		return
	}
	w.state.Recompute()
}

func sortedGroups(groups map[string][]string) []string {
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	// Two small groups in practice; insertion sort keeps order stable.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}
