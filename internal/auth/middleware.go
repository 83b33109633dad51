package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// UserLookup loads the user a token refers to.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// QueryTokenParam carries the token on websocket upgrades, where browsers
// cannot set an Authorization header.
const QueryTokenParam = "access_token"

// Middleware rejects requests without a valid bearer token for an active
// user and stores the caller's Identity in the request context.
func Middleware(issuer *Issuer, users UserLookup, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token == "" {
				token = c.QueryParam(QueryTokenParam)
			}
			if token == "" {
				return unauthorized(c, "not authenticated")
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				return unauthorized(c, err.Error())
			}

			ctx := c.Request().Context()
			user, err := users.GetUser(ctx, claims.Subject)
			if err != nil {
				logger.Error().Err(err).Str("user_id", claims.Subject).Msg("failed to load token user")
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load user"})
			}
			if user == nil {
				return unauthorized(c, "user not found")
			}
			if !user.IsActive {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "inactive user"})
			}

			id := Identity{UserID: user.ID, Email: user.Email, IsSuperuser: user.IsSuperuser}
			c.SetRequest(c.Request().WithContext(WithIdentity(ctx, id)))
			return next(c)
		}
	}
}

// RequireSuperuser allows only superusers through. It must run after Middleware.
func RequireSuperuser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := FromContext(c.Request().Context())
		if !ok || !id.IsSuperuser {
			return c.JSON(http.StatusForbidden, map[string]string{"error": domain.ErrForbidden.Error()})
		}
		return next(c)
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
}
