// handlers_refdata.go - Geographic reference data handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rms-collector/backend/internal/refdata"
)

// HandleListProvinces returns the province selector options.
func (h *Handler) HandleListProvinces(c echo.Context) error {
	return c.JSON(http.StatusOK, h.refdata.ListProvinces())
}

// HandleListRegencies returns the kabupaten/kota options for one province.
func (h *Handler) HandleListRegencies(c echo.Context) error {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		return NewValidationError("code")
	}

	regencies := h.refdata.ListRegenciesFor(code)
	if regencies == nil {
		regencies = []refdata.Regency{}
	}
	return c.JSON(http.StatusOK, regencies)
}
