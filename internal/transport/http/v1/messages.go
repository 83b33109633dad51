package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

func (h *Handler) ListMessages(c echo.Context) error {
	skip, limit := paging(c)
	msgs, err := h.service.ListMessages(c.Request().Context(), skip, limit)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *Handler) CreateMessage(c echo.Context) error {
	var req domain.MessageInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	msg, err := h.service.CreateMessage(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *Handler) GetMessage(c echo.Context) error {
	msg, err := h.service.GetMessage(c.Request().Context(), c.Param("id"), policy.ActionRead)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *Handler) UpdateMessage(c echo.Context) error {
	var req domain.MessageInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	msg, err := h.service.UpdateMessage(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *Handler) DeleteMessage(c echo.Context) error {
	if err := h.service.DeleteMessage(c.Request().Context(), c.Param("id")); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "Message")
}
