package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// Complete runs a completion and returns the produced messages.
// POST /api/v1/completions
func (h *Handler) Complete(c echo.Context) error {
	var req domain.CompletionInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	resp, err := h.service.Complete(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, dispatchRoute)
	}
	return c.JSON(http.StatusOK, resp)
}
