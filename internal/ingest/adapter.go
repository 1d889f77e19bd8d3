package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rms-collector/backend/internal/models"
	"github.com/rms-collector/backend/internal/workflow"
)

// Failure reasons for IngestionError.
const (
	ReasonBadExtension = "bad_extension"
	ReasonSlotDisabled = "slot_disabled"
	ReasonPrecondition = "precondition_not_met"
	ReasonDecodeFailed = "decode_failed"
	ReasonUnknownSlot  = "unknown_slot"
)

// IngestionError reports why a file could not be ingested into a slot. It
// is recovered locally and surfaced as a single message; it never reaches
// the submission orchestrator.
type IngestionError struct {
	Slot    string
	Reason  string
	Message string
	Err     error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingest %s: %s: %v", e.Slot, e.Message, e.Err)
	}
	return fmt.Sprintf("ingest %s: %s", e.Slot, e.Message)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Adapter wraps the external decoder behind the upload gates: extension
// allow-list, slot enablement, and the confirmation precondition for
// dependent slots.
type Adapter struct {
	decoder Decoder
	allowed map[string]bool
}

// NewAdapter creates an ingestion adapter with the given decoder and the
// default .xls/.xlsx allow-list.
func NewAdapter(decoder Decoder) *Adapter {
	return &Adapter{
		decoder: decoder,
		allowed: map[string]bool{".xls": true, ".xlsx": true},
	}
}

// Ingest decodes one uploaded file and assigns its first sheet to the slot.
// The decode runs outside the session lock; the gates are checked before
// decoding and re-verified on attach. Enablement recomputation follows the
// attach inside the session, not as a side effect here.
func (a *Adapter) Ingest(w *workflow.Session, slot, filename string, data []byte) (*models.FileInfo, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !a.allowed[ext] {
		return nil, &IngestionError{
			Slot:    slot,
			Reason:  ReasonBadExtension,
			Message: fmt.Sprintf("unsupported file type %q, expected .xls or .xlsx", ext),
		}
	}

	if unconfirmedRoot, err := w.GateCheck(slot); err != nil {
		return nil, gateError(slot, unconfirmedRoot, err)
	}

	sheets, err := a.decoder.Decode(data)
	if err != nil {
		return nil, &IngestionError{
			Slot:    slot,
			Reason:  ReasonDecodeFailed,
			Message: "could not read spreadsheet",
			Err:     err,
		}
	}
	if len(sheets) == 0 {
		return nil, &IngestionError{
			Slot:    slot,
			Reason:  ReasonDecodeFailed,
			Message: "workbook has no sheets",
		}
	}

	// Deterministic sheet selection: the first declared.
	first := sheets[0]
	info := &models.FileInfo{
		Name:       filename,
		Size:       int64(len(data)),
		Sheet:      first.Name,
		UploadedAt: time.Now(),
	}

	if err := w.AttachFile(slot, info, first.Records); err != nil {
		return nil, gateError(slot, false, err)
	}
	return info, nil
}

func gateError(slot string, unconfirmedRoot bool, err error) *IngestionError {
	var unknown *workflow.ErrUnknownSlot
	if errors.As(err, &unknown) {
		return &IngestionError{
			Slot:    slot,
			Reason:  ReasonUnknownSlot,
			Message: "slot does not exist",
			Err:     err,
		}
	}
	if unconfirmedRoot {
		return &IngestionError{
			Slot:    slot,
			Reason:  ReasonPrecondition,
			Message: "the root dataset must be submitted and accepted first",
			Err:     err,
		}
	}
	return &IngestionError{
		Slot:    slot,
		Reason:  ReasonSlotDisabled,
		Message: "slot is not open for upload",
		Err:     err,
	}
}
