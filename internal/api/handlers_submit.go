// handlers_submit.go - Section submission handler
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rms-collector/backend/internal/report"
	"github.com/rms-collector/backend/internal/submit"
	"github.com/rms-collector/backend/internal/workflow"
)

// submitResponse is the body returned for every completed submission
// attempt, successful or not.
type submitResponse struct {
	Result *struct {
		Kind    string `json:"kind"`
		Message string `json:"message,omitempty"`
	} `json:"result"`
	Errors report.Tree        `json:"errors,omitempty"`
	State  *workflow.Snapshot `json:"state"`
}

// HandleSubmitSection runs the submission orchestrator for one section and
// returns the formatted result tree plus the updated state.
func (h *Handler) HandleSubmitSection(c echo.Context) error {
	w, err := h.session(c)
	if err != nil {
		return err
	}

	section := c.Param("section")
	if section == "" {
		return NewValidationError("section")
	}

	result, err := h.orch.SubmitSection(c.Request().Context(), w, section)
	if err != nil {
		return submitAPIError(section, err)
	}

	snap := w.Snapshot()
	resp := submitResponse{State: snap}
	resp.Result = &struct {
		Kind    string `json:"kind"`
		Message string `json:"message,omitempty"`
	}{Kind: string(result.Kind), Message: result.Message}
	resp.Errors = report.BuildTree(snap.Contact, result)

	return c.JSON(http.StatusOK, resp)
}

// submitAPIError maps orchestrator failures to HTTP shapes. These are all
// local rejections; remote outcomes come back through the result tree.
func submitAPIError(section string, err error) error {
	var local *submit.LocalValidationError
	if errors.As(err, &local) {
		return NewLocalValidationError(local.Fields, local.MissingSlots)
	}

	var unknown *workflow.ErrUnknownSection
	if errors.As(err, &unknown) {
		return NewNotFoundError("section", section)
	}

	var disabled *workflow.ErrSectionDisabled
	if errors.As(err, &disabled) {
		apiErr := NewConflictError(disabled.Error())
		apiErr.Code = "SECTION_NOT_OPEN"
		return apiErr
	}

	if errors.Is(err, workflow.ErrSubmissionInFlight) {
		apiErr := NewConflictError("a submission is already in flight, wait for it to finish")
		apiErr.Code = "SUBMISSION_IN_FLIGHT"
		return apiErr
	}

	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "SUBMISSION_FAILED",
		Message: "submission failed",
		Details: err.Error(),
	}
}
