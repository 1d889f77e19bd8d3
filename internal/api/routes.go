// routes.go - Route registration
package api

import "github.com/labstack/echo/v4"

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", h.HandleHealth)

	// Workflow sessions
	apiGroup.POST("/workflow", h.HandleCreateWorkflow)
	apiGroup.DELETE("/workflow/:id", h.HandleDeleteWorkflow)
	apiGroup.GET("/workflow/:id/state", h.HandleGetState)
	apiGroup.GET("/workflow/:id/state/msgpack", h.HandleGetStateMsgpack)
	apiGroup.PUT("/workflow/:id/contact", h.HandleSetContact)

	// Slot files
	apiGroup.POST("/workflow/:id/slots/:slot/file", h.HandleUploadSlotFile)
	apiGroup.DELETE("/workflow/:id/slots/:slot/file", h.HandleRemoveSlotFile)

	// Section submission
	apiGroup.POST("/workflow/:id/sections/:section/submit", h.HandleSubmitSection)

	// Geographic reference data
	apiGroup.GET("/refdata/provinces", h.HandleListProvinces)
	apiGroup.GET("/refdata/provinces/:code/regencies", h.HandleListRegencies)
}
