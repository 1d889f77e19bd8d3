package models

// OutcomeKind classifies one remote submission response.
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomePartialSuccess  OutcomeKind = "partial_success"
	OutcomeValidationError OutcomeKind = "validation_error"
	OutcomeTransportError  OutcomeKind = "transport_error"
)

// RecordError is one per-record rejection reported by the remote service.
type RecordError struct {
	Record  int    `json:"record"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SubmissionResult is the normalized outcome of one remote call. Raw server
// JSON is converted into this shape at the client boundary; nothing past it
// branches on wire formats.
type SubmissionResult struct {
	Kind            OutcomeKind              `json:"kind"`
	Message         string                   `json:"message,omitempty"`
	SuccessfulSlots []string                 `json:"successfulSlots,omitempty"`
	SlotErrors      map[string][]RecordError `json:"slotErrors,omitempty"`
	ContactErrors   map[string]string        `json:"contactErrors,omitempty"`
}

// Failed reports whether the submission was anything short of full success.
func (r *SubmissionResult) Failed() bool {
	return r.Kind != OutcomeSuccess
}
