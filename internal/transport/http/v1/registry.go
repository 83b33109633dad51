package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// ListHandlers returns the handler names a model or connector record may use.
// GET /api/v1/handlers
func (h *Handler) ListHandlers(c echo.Context) error {
	list, err := h.service.ListHandlers(c.Request().Context())
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ListModels(c echo.Context) error {
	skip, limit := paging(c)
	models, err := h.service.ListModels(c.Request().Context(), skip, limit)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, models)
}

func (h *Handler) CreateModel(c echo.Context) error {
	var req domain.ModelInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	model, err := h.service.CreateModel(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, model)
}

func (h *Handler) GetModel(c echo.Context) error {
	model, err := h.service.GetModel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, model)
}

func (h *Handler) UpdateModel(c echo.Context) error {
	var req domain.ModelInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	model, err := h.service.UpdateModel(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, model)
}

func (h *Handler) DeleteModel(c echo.Context) error {
	if err := h.service.DeleteModel(c.Request().Context(), c.Param("id")); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "Model")
}

func (h *Handler) ListConnectors(c echo.Context) error {
	skip, limit := paging(c)
	conns, err := h.service.ListConnectors(c.Request().Context(), skip, limit)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, conns)
}

func (h *Handler) CreateConnector(c echo.Context) error {
	var req domain.ConnectorInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	conn, err := h.service.CreateConnector(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, conn)
}

func (h *Handler) GetConnector(c echo.Context) error {
	conn, err := h.service.GetConnector(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, conn)
}

func (h *Handler) UpdateConnector(c echo.Context) error {
	var req domain.ConnectorInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	conn, err := h.service.UpdateConnector(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, conn)
}

func (h *Handler) DeleteConnector(c echo.Context) error {
	if err := h.service.DeleteConnector(c.Request().Context(), c.Param("id")); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "Connector")
}
