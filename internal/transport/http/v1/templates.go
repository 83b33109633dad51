package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

func (h *Handler) ListTemplates(c echo.Context) error {
	skip, limit := paging(c)
	tmpls, err := h.service.ListTemplates(c.Request().Context(), skip, limit)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, tmpls)
}

func (h *Handler) CreateTemplate(c echo.Context) error {
	var req domain.TemplateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	tmpl, err := h.service.CreateTemplate(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, tmpl)
}

func (h *Handler) GetTemplate(c echo.Context) error {
	tmpl, err := h.service.GetTemplate(c.Request().Context(), c.Param("id"), policy.ActionRead)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, tmpl)
}

func (h *Handler) UpdateTemplate(c echo.Context) error {
	var req domain.TemplateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	tmpl, err := h.service.UpdateTemplate(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, tmpl)
}

func (h *Handler) DeleteTemplate(c echo.Context) error {
	if err := h.service.DeleteTemplate(c.Request().Context(), c.Param("id")); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "Template")
}
