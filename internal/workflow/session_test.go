package workflow

import (
	"testing"

	"github.com/rms-collector/backend/internal/config"
	"github.com/rms-collector/backend/internal/models"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	m := NewManager(config.DefaultWorkflow(), 0)
	w, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return w
}

func sessionAttach(t *testing.T, w *Session, slot string, n int) {
	t.Helper()
	if err := w.AttachFile(slot, testFile(slot+".xlsx"), testRecords(n)); err != nil {
		t.Fatalf("AttachFile(%s) failed: %v", slot, err)
	}
}

func TestGateCheckDistinguishesPreconditions(t *testing.T) {
	w := newTestSession(t)

	// Plain disablement: Alignment has no confirmation edge.
	unconfirmed, err := w.GateCheck("Alignment")
	if err == nil {
		t.Fatal("expected error for disabled Alignment")
	}
	if unconfirmed {
		t.Error("Alignment disablement misreported as confirmation precondition")
	}

	// Confirmation precondition: RoadInventory filled, survey not uploaded.
	w.ApplyOutcome("map", true, &models.SubmissionResult{Kind: models.OutcomeSuccess})
	sessionAttach(t, w, "RoadInventory", 3)

	unconfirmed, err = w.GateCheck("RoadCondition")
	if err == nil {
		t.Fatal("expected error for gated RoadCondition")
	}
	if !unconfirmed {
		t.Error("unmet confirmation precondition not reported")
	}

	// After confirmation the gate opens.
	w.ApplyOutcome("survey", true, &models.SubmissionResult{Kind: models.OutcomeSuccess})
	if _, err := w.GateCheck("RoadCondition"); err != nil {
		t.Errorf("RoadCondition should be open after confirmation: %v", err)
	}
}

func TestBeginSubmitSingleFlight(t *testing.T) {
	w := newTestSession(t)

	if err := w.BeginSubmit("map"); err != nil {
		t.Fatalf("first BeginSubmit failed: %v", err)
	}
	if err := w.BeginSubmit("map"); err != ErrSubmissionInFlight {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	// The guard covers the whole session, not one section.
	if err := w.BeginSubmit("unitCosts"); err != ErrSubmissionInFlight {
		t.Fatalf("expected ErrSubmissionInFlight for other section, got %v", err)
	}

	w.EndSubmit()
	if err := w.BeginSubmit("unitCosts"); err != nil {
		t.Errorf("BeginSubmit after EndSubmit failed: %v", err)
	}
}

func TestBeginSubmitSectionGates(t *testing.T) {
	w := newTestSession(t)

	if err := w.BeginSubmit("nope"); err == nil {
		t.Error("expected error for unknown section")
	} else if _, ok := err.(*ErrUnknownSection); !ok {
		t.Errorf("expected ErrUnknownSection, got %T", err)
	}

	if err := w.BeginSubmit("survey"); err == nil {
		t.Error("expected error for disabled section")
	} else if _, ok := err.(*ErrSectionDisabled); !ok {
		t.Errorf("expected ErrSectionDisabled, got %T", err)
	}
}

func TestSubmissionViewScoping(t *testing.T) {
	w := newTestSession(t)
	w.ApplyOutcome("map", true, &models.SubmissionResult{Kind: models.OutcomeSuccess})

	sessionAttach(t, w, "RoadInventory", 3)
	sessionAttach(t, w, "BridgeInventory", 2)
	sessionAttach(t, w, "TrafficVolume", 1)

	view, err := w.SubmissionView("survey")
	if err != nil {
		t.Fatalf("SubmissionView failed: %v", err)
	}

	if !view.RootFilled {
		t.Error("RootFilled should be true with RoadInventory attached")
	}
	if view.Uploaded {
		t.Error("survey should not be marked uploaded yet")
	}
	if len(view.MissingRequired) != 0 {
		t.Errorf("unexpected missing slots: %v", view.MissingRequired)
	}
	if got, want := len(view.FilledSlots), 1; got != want {
		t.Errorf("FilledSlots = %v, want just the root", view.FilledSlots)
	}
	if got, want := len(view.FilledSatellites), 2; got != want {
		t.Errorf("FilledSatellites = %v, want 2 entries", view.FilledSatellites)
	}
	for _, name := range []string{"RoadInventory", "BridgeInventory", "TrafficVolume"} {
		if _, ok := view.Records[name]; !ok {
			t.Errorf("records for %s missing from view", name)
		}
	}
}

func TestSubmissionViewMissingRequired(t *testing.T) {
	w := newTestSession(t)

	view, err := w.SubmissionView("unitCosts")
	if err != nil {
		t.Fatalf("SubmissionView failed: %v", err)
	}
	if got, want := len(view.MissingRequired), 7; got != want {
		t.Errorf("MissingRequired has %d entries, want %d: %v", got, want, view.MissingRequired)
	}

	sessionAttach(t, w, "CODE_AN_UnitCostsPER", 1)
	view, _ = w.SubmissionView("unitCosts")
	if got, want := len(view.MissingRequired), 6; got != want {
		t.Errorf("MissingRequired has %d entries after upload, want %d", got, want)
	}
}

func TestApplyOutcomeConfirmable(t *testing.T) {
	w := newTestSession(t)

	w.ApplyOutcome("map", true, &models.SubmissionResult{Kind: models.OutcomeSuccess})
	snap := w.Snapshot()
	if !snapSection(t, snap, "map").Uploaded {
		t.Error("map should be uploaded after confirmable success")
	}

	// A later confirmable failure retracts the flag.
	w.ApplyOutcome("map", true, &models.SubmissionResult{Kind: models.OutcomeValidationError})
	snap = w.Snapshot()
	if snapSection(t, snap, "map").Uploaded {
		t.Error("map should be retracted after confirmable failure")
	}
}

func TestApplyOutcomeCarveOut(t *testing.T) {
	w := newTestSession(t)

	sessionAttach(t, w, "Link", 3)
	w.ApplyOutcome("map", true, &models.SubmissionResult{Kind: models.OutcomeSuccess})

	// A dependent-only failure must not touch the confirmed flag.
	w.ApplyOutcome("map", false, &models.SubmissionResult{
		Kind:       models.OutcomePartialSuccess,
		SlotErrors: map[string][]models.RecordError{"Alignment": {{Record: 1, Field: "chainage", Message: "invalid"}}},
	})

	snap := w.Snapshot()
	if !snapSection(t, snap, "map").Uploaded {
		t.Error("non-confirmable failure retracted the uploaded flag")
	}
}

func snapSection(t *testing.T, snap *Snapshot, name string) *SectionSnapshot {
	t.Helper()
	for i := range snap.Sections {
		if snap.Sections[i].Name == name {
			return &snap.Sections[i]
		}
	}
	t.Fatalf("section %s not in snapshot", name)
	return nil
}
