// handlers.go - Handler wiring and health check
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rms-collector/backend/internal/ingest"
	"github.com/rms-collector/backend/internal/refdata"
	"github.com/rms-collector/backend/internal/submit"
	"github.com/rms-collector/backend/internal/workflow"
)

// Handler bundles the workflow engine behind the HTTP surface.
type Handler struct {
	workflows *workflow.Manager
	adapter   *ingest.Adapter
	orch      *submit.Orchestrator
	refdata   refdata.Source
	version   string
}

// NewHandler creates the API handler.
func NewHandler(workflows *workflow.Manager, adapter *ingest.Adapter, orch *submit.Orchestrator, ref refdata.Source, version string) *Handler {
	return &Handler{
		workflows: workflows,
		adapter:   adapter,
		orch:      orch,
		refdata:   ref,
		version:   version,
	}
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"time":    time.Now().UTC(),
	})
}

// session resolves the workflow session from the :id route parameter.
func (h *Handler) session(c echo.Context) (*workflow.Session, error) {
	id := c.Param("id")
	if id == "" {
		return nil, NewValidationError("id")
	}
	w, ok := h.workflows.Get(id)
	if !ok {
		return nil, NewNotFoundError("workflow", id)
	}
	return w, nil
}
