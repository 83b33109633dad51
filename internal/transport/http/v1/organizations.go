package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

func (h *Handler) ListOrganizations(c echo.Context) error {
	skip, limit := paging(c)
	orgs, err := h.service.ListOrganizations(c.Request().Context(), skip, limit)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, orgs)
}

func (h *Handler) CreateOrganization(c echo.Context) error {
	var req domain.OrganizationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	org, err := h.service.CreateOrganization(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, org)
}

func (h *Handler) GetOrganization(c echo.Context) error {
	org, err := h.service.GetOrganization(c.Request().Context(), c.Param("id"), policy.ActionRead)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, org)
}

func (h *Handler) UpdateOrganization(c echo.Context) error {
	var req domain.OrganizationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	org, err := h.service.UpdateOrganization(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, org)
}

func (h *Handler) DeleteOrganization(c echo.Context) error {
	if err := h.service.DeleteOrganization(c.Request().Context(), c.Param("id")); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "Organization")
}
