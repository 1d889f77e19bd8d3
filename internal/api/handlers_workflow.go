// handlers_workflow.go - Workflow session and state handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/rms-collector/backend/internal/models"
)

// HandleCreateWorkflow starts a fresh workflow session and returns its
// initial state snapshot.
func (h *Handler) HandleCreateWorkflow(c echo.Context) error {
	w, err := h.workflows.Create()
	if err != nil {
		return NewInternalError("failed to create workflow", err)
	}
	return c.JSON(http.StatusCreated, w.Snapshot())
}

// HandleDeleteWorkflow discards a workflow session.
func (h *Handler) HandleDeleteWorkflow(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}
	if !h.workflows.Delete(id) {
		return NewNotFoundError("workflow", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGetState returns the current workflow state snapshot as JSON.
func (h *Handler) HandleGetState(c echo.Context) error {
	w, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w.Snapshot())
}

// HandleGetStateMsgpack returns the state snapshot msgpack-encoded, for
// clients polling the state at high frequency.
func (h *Handler) HandleGetStateMsgpack(c echo.Context) error {
	w, err := h.session(c)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(w.Snapshot())
	if err != nil {
		return NewInternalError("failed to encode state", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

type contactRequest struct {
	Status        string `json:"status"`
	Province      string `json:"province"`
	ProvinceCode  int    `json:"provinceCode"`
	Kabupaten     string `json:"kabupaten"`
	KabupatenCode int    `json:"kabupatenCode"`
	LGName        string `json:"lgName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// HandleSetContact stores the shared contact-detail fields. Field regexes
// run at submit time; this only replaces the stored values.
func (h *Handler) HandleSetContact(c echo.Context) error {
	w, err := h.session(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	w.SetContact(models.ContactDetails{
		Status:        req.Status,
		Province:      req.Province,
		ProvinceCode:  req.ProvinceCode,
		Kabupaten:     req.Kabupaten,
		KabupatenCode: req.KabupatenCode,
		LGName:        req.LGName,
		Email:         req.Email,
		Phone:         req.Phone,
	})

	return c.JSON(http.StatusOK, w.Snapshot())
}
