package submit

import (
	"context"
	"fmt"
	"strings"

	"github.com/rms-collector/backend/internal/models"
	"github.com/rms-collector/backend/internal/workflow"
)

// LocalValidationError blocks a submission before any network call is made.
type LocalValidationError struct {
	Section      string
	Fields       map[string]string // contact field -> message
	MissingSlots []string          // required slots without records
}

func (e *LocalValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	if len(e.MissingSlots) > 0 {
		parts = append(parts, "missing required files: "+strings.Join(e.MissingSlots, ", "))
	}
	return fmt.Sprintf("section %q cannot be submitted: %s", e.Section, strings.Join(parts, "; "))
}

// Remote is the capability the orchestrator needs from the submission
// client. It exists so tests can script outcomes without a server.
type Remote interface {
	Submit(ctx context.Context, payload map[string]any) *models.SubmissionResult
}

// Orchestrator submits one section's current data to the remote service
// and applies the outcome to the workflow state.
type Orchestrator struct {
	remote Remote
}

// NewOrchestrator creates a submission orchestrator.
func NewOrchestrator(remote Remote) *Orchestrator {
	return &Orchestrator{remote: remote}
}

// SubmitSection runs the full submission pipeline: single-flight guard,
// local validation, intent computation, payload construction, the remote
// call, and the resulting state transitions. The guard is released in a
// defer regardless of outcome.
func (o *Orchestrator) SubmitSection(ctx context.Context, w *workflow.Session, section string) (*models.SubmissionResult, error) {
	if err := w.BeginSubmit(section); err != nil {
		return nil, err
	}
	defer w.EndSubmit()

	view, err := w.SubmissionView(section)
	if err != nil {
		return nil, err
	}

	if err := validateLocally(view); err != nil {
		return nil, err
	}

	intent := ComputeIntent(view)
	payload := buildPayload(view, intent)

	fmt.Printf("[Submit %s] %s: %d dataset(s): %s\n",
		shortSection(section), intent.Kind, len(intent.Slots), strings.Join(intent.Slots, ", "))

	result := o.remote.Submit(ctx, payload)
	w.ApplyOutcome(section, intent.Confirmable(), result)

	fmt.Printf("[Submit %s] outcome: %s\n", shortSection(section), result.Kind)
	return result, nil
}

// validateLocally checks the contact fields and the section's required
// slots, failing fast before any network call.
func validateLocally(view *workflow.SubmissionView) error {
	fields := view.Contact.Validate()
	if len(fields) == 0 && len(view.MissingRequired) == 0 {
		return nil
	}
	return &LocalValidationError{
		Section:      view.Section,
		Fields:       fields,
		MissingSlots: append([]string{}, view.MissingRequired...),
	}
}

// buildPayload assembles the wire body: one normalized contact record plus
// the record sequences the intent scoped in.
func buildPayload(view *workflow.SubmissionView, intent Intent) map[string]any {
	payload := map[string]any{
		"ContactDetails": []models.Record{view.Contact.Payload()},
	}
	for _, slot := range intent.Slots {
		if records, ok := view.Records[slot]; ok {
			payload[slot] = records
		}
	}
	return payload
}

func shortSection(section string) string {
	if len(section) > 12 {
		return section[:12]
	}
	return section
}
