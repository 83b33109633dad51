package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/logging"
)

// routeKind selects how record-level failures map to status codes.
type routeKind int

const (
	// resourceRoute addresses a record directly; a missing record is a 404.
	resourceRoute routeKind = iota
	// dispatchRoute references records indirectly; missing or inactive ones are client input errors.
	dispatchRoute
)

// statusFor maps a service error to an HTTP status.
func statusFor(err error, kind routeKind) int {
	var execErr *domain.ExecutionError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		if kind == dispatchRoute {
			return http.StatusBadRequest
		}
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInactive):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownHandler):
		return http.StatusInternalServerError
	case errors.As(err, &execErr):
		if execErr.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": ...}. Internal errors are logged and
// their details withheld.
func (h *Handler) writeError(c echo.Context, err error, kind routeKind) error {
	status := statusFor(err, kind)
	body := map[string]string{"error": err.Error()}
	if kind == dispatchRoute {
		body["code"] = domain.Outcome(err)
	}
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrUnknownHandler) {
		logger := logging.Ctx(c.Request().Context(), h.logger)
		logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		body["error"] = "internal server error"
	}
	return c.JSON(status, body)
}
