// Package v1 provides the /api/v1 HTTP handlers.
package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/auth"
	"github.com/MKRNaqeebi/GenAlima/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	name    string
	logger  zerolog.Logger
}

// NewHandler creates a new handler. name is reported by the health route.
func NewHandler(svc *service.Service, name string, logger zerolog.Logger) *Handler {
	return &Handler{
		service: svc,
		name:    name,
		logger:  logger,
	}
}

// RegisterRoutes registers the public routes on e and the authenticated
// routes on api behind requireAuth.
func (h *Handler) RegisterRoutes(e *echo.Echo, api *echo.Group, requireAuth echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	// Public API
	api.POST("/login/access-token", h.Login)
	api.POST("/users/signup", h.Signup)

	g := api.Group("", requireAuth)

	// Accounts
	g.POST("/login/test-token", h.TestToken)
	g.GET("/users/me", h.Me)
	g.PATCH("/users/me", h.UpdateMe)
	g.PATCH("/users/me/password", h.UpdatePassword)
	g.DELETE("/users/me", h.DeleteMe)
	g.GET("/users", h.ListUsers, auth.RequireSuperuser)
	g.POST("/users", h.CreateUser, auth.RequireSuperuser)
	g.GET("/users/:id", h.GetUser)
	g.DELETE("/users/:id", h.DeleteUser, auth.RequireSuperuser)

	// Tenancy
	g.GET("/organizations", h.ListOrganizations)
	g.POST("/organizations", h.CreateOrganization)
	g.GET("/organizations/:id", h.GetOrganization)
	g.PUT("/organizations/:id", h.UpdateOrganization)
	g.DELETE("/organizations/:id", h.DeleteOrganization)

	// Prompt registry
	g.GET("/templates", h.ListTemplates)
	g.POST("/templates", h.CreateTemplate)
	g.GET("/templates/:id", h.GetTemplate)
	g.PUT("/templates/:id", h.UpdateTemplate)
	g.DELETE("/templates/:id", h.DeleteTemplate)

	g.GET("/models", h.ListModels)
	g.POST("/models", h.CreateModel)
	g.GET("/models/:id", h.GetModel)
	g.PUT("/models/:id", h.UpdateModel)
	g.DELETE("/models/:id", h.DeleteModel)

	g.GET("/connectors", h.ListConnectors)
	g.POST("/connectors", h.CreateConnector)
	g.GET("/connectors/:id", h.GetConnector)
	g.PUT("/connectors/:id", h.UpdateConnector)
	g.DELETE("/connectors/:id", h.DeleteConnector)

	g.GET("/handlers", h.ListHandlers)

	// Conversations
	g.GET("/chats", h.ListChats)
	g.POST("/chats", h.CreateChat)
	g.GET("/chats/:id", h.GetChat)
	g.PUT("/chats/:id", h.UpdateChat)
	g.DELETE("/chats/:id", h.DeleteChat)
	g.GET("/chats/:id/messages", h.ChatMessages)

	g.GET("/messages", h.ListMessages)
	g.POST("/messages", h.CreateMessage)
	g.GET("/messages/:id", h.GetMessage)
	g.PUT("/messages/:id", h.UpdateMessage)
	g.DELETE("/messages/:id", h.DeleteMessage)

	g.POST("/completions", h.Complete)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	if err := h.service.Ping(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"name":    h.name,
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// paging reads skip and limit query parameters; bad values fall back to defaults.
func paging(c echo.Context) (skip, limit int) {
	if v, err := strconv.Atoi(c.QueryParam("skip")); err == nil {
		skip = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = v
	}
	return skip, limit
}

func deleted(c echo.Context, what string) error {
	return c.JSON(http.StatusOK, map[string]string{"message": what + " deleted successfully"})
}
