package submit

import "github.com/rms-collector/backend/internal/workflow"

// IntentKind tags how a section submission is scoped. It is computed once
// before payload construction so the confirmed-state carve-out is an
// exhaustive switch rather than scattered conditionals.
type IntentKind string

const (
	// IntentFull submits every filled slot of a section without a root.
	IntentFull IntentKind = "full"
	// IntentRootOnly is the first-time submission of a rooted section:
	// only the root slot's records go out, dependents are held back.
	IntentRootOnly IntentKind = "root_only"
	// IntentDependentsOnly resubmits newly filled dependents of an
	// already confirmed root, leaving the root out.
	IntentDependentsOnly IntentKind = "dependents_only"
	// IntentSatelliteMerge resubmits only satellite-group slots of an
	// already confirmed section.
	IntentSatelliteMerge IntentKind = "satellite_merge"
)

// Intent is the scoped slot set for one submission.
type Intent struct {
	Kind  IntentKind
	Slots []string
}

// Confirmable reports whether this submission carries the section's
// confirmation: its outcome moves the uploaded flag. Dependent-only and
// satellite-only submissions never retract a confirmed parent.
func (i Intent) Confirmable() bool {
	return i.Kind == IntentFull || i.Kind == IntentRootOnly
}

// ComputeIntent derives the submission intent from a consistent view of
// the section. Satellite-group slots ride along with every submission of
// their section, regardless of the root/dependent split, because they have
// no submit action of their own.
func ComputeIntent(view *workflow.SubmissionView) Intent {
	if view.RootSlot == "" {
		return Intent{
			Kind:  IntentFull,
			Slots: append(append([]string{}, view.FilledSlots...), view.FilledSatellites...),
		}
	}

	if !view.Uploaded {
		slots := []string{}
		if view.RootFilled {
			slots = append(slots, view.RootSlot)
		}
		return Intent{
			Kind:  IntentRootOnly,
			Slots: append(slots, view.FilledSatellites...),
		}
	}

	slots := append(append([]string{}, view.FilledDependents...), view.FilledSatellites...)
	if len(view.FilledDependents) == 0 && len(view.FilledSatellites) > 0 {
		return Intent{Kind: IntentSatelliteMerge, Slots: slots}
	}
	return Intent{Kind: IntentDependentsOnly, Slots: slots}
}
