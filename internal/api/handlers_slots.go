// handlers_slots.go - Slot file upload and removal handlers
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rms-collector/backend/internal/ingest"
)

// HandleUploadSlotFile ingests a multipart spreadsheet upload into a slot
// and returns the updated state snapshot.
func (h *Handler) HandleUploadSlotFile(c echo.Context) error {
	w, err := h.session(c)
	if err != nil {
		return err
	}

	slot := c.Param("slot")
	if slot == "" {
		return NewValidationError("slot")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError("failed to read uploaded file", err)
	}

	info, err := h.adapter.Ingest(w, slot, file.Filename, data)
	if err != nil {
		return ingestAPIError(err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"file":  info,
		"state": w.Snapshot(),
	})
}

// HandleRemoveSlotFile clears a slot's file, cascading to its dependents.
func (h *Handler) HandleRemoveSlotFile(c echo.Context) error {
	w, err := h.session(c)
	if err != nil {
		return err
	}

	slot := c.Param("slot")
	if slot == "" {
		return NewValidationError("slot")
	}

	if err := w.RemoveFile(slot); err != nil {
		return NewNotFoundError("slot", slot)
	}

	return c.JSON(http.StatusOK, w.Snapshot())
}

// ingestAPIError maps an ingestion failure to its HTTP shape.
func ingestAPIError(err error) error {
	var ingErr *ingest.IngestionError
	if !errors.As(err, &ingErr) {
		return NewInternalError("ingestion failed", err)
	}

	switch ingErr.Reason {
	case ingest.ReasonUnknownSlot:
		return NewNotFoundError("slot", ingErr.Slot)
	case ingest.ReasonSlotDisabled, ingest.ReasonPrecondition:
		apiErr := NewConflictError(ingErr.Message)
		apiErr.Code = "SLOT_NOT_OPEN"
		return apiErr
	default:
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "INGESTION_ERROR",
			Message: ingErr.Message,
			Details: ingErr.Error(),
		}
	}
}
