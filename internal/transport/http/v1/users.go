package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// Login exchanges credentials for an access token. Accepts form or JSON bodies.
// POST /api/v1/login/access-token
func (h *Handler) Login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	tok, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, tok)
}

// TestToken returns the user the token belongs to.
// POST /api/v1/login/test-token
func (h *Handler) TestToken(c echo.Context) error {
	return h.Me(c)
}

// Signup registers a new account.
// POST /api/v1/users/signup
func (h *Handler) Signup(c echo.Context) error {
	var req domain.UserRegister
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	user, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) Me(c echo.Context) error {
	user, err := h.service.Me(c.Request().Context())
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	var req domain.UserUpdateMe
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	user, err := h.service.UpdateMe(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdatePassword(c echo.Context) error {
	var req domain.UpdatePassword
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.service.UpdatePassword(c.Request().Context(), req); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *Handler) DeleteMe(c echo.Context) error {
	if err := h.service.DeleteMe(c.Request().Context()); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "User")
}

func (h *Handler) ListUsers(c echo.Context) error {
	skip, limit := paging(c)
	users, err := h.service.ListUsers(c.Request().Context(), skip, limit)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req domain.UserCreate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	user, err := h.service.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return h.writeError(c, err, resourceRoute)
	}
	return deleted(c, "User")
}
