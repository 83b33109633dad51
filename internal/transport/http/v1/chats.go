package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
)

func (h *Handler) ListChats(c echo.Context) error {
	skip, limit := paging(c)
	chats, err := h.service.ListChats(c.Request().Context(), skip, limit)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, chats)
}

func (h *Handler) CreateChat(c echo.Context) error {
	var req domain.ChatInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	chat, err := h.service.CreateChat(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, dispatchRoute)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *Handler) GetChat(c echo.Context) error {
	chat, err := h.service.GetChat(c.Request().Context(), c.Param("id"), policy.ActionRead)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *Handler) UpdateChat(c echo.Context) error {
	var req domain.ChatInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	chat, err := h.service.UpdateChat(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *Handler) DeleteChat(c echo.Context) error {
	if err := h.service.DeleteChat(c.Request().Context(), c.Param("id")); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "Chat")
}

// ChatMessages returns a chat's conversation in order.
// GET /api/v1/chats/:id/messages
func (h *Handler) ChatMessages(c echo.Context) error {
	msgs, err := h.service.ChatMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, msgs)
}
