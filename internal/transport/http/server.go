// Package http assembles the public HTTP server.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/auth"
	"github.com/MKRNaqeebi/GenAlima/internal/config"
	"github.com/MKRNaqeebi/GenAlima/internal/logging"
	"github.com/MKRNaqeebi/GenAlima/internal/metrics"
	"github.com/MKRNaqeebi/GenAlima/internal/service"
	v1 "github.com/MKRNaqeebi/GenAlima/internal/transport/http/v1"
	"github.com/MKRNaqeebi/GenAlima/internal/transport/ws"
)

// Deps are the collaborators the server routes to. Metrics may be nil.
type Deps struct {
	Config  *config.Config
	Service *service.Service
	Issuer  *auth.Issuer
	Users   auth.UserLookup
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	// Metrics wraps the request logger so it observes the status the logger's
	// error handling wrote.
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware(d.Config.HTTP.MetricsPath))
		e.GET(d.Config.HTTP.MetricsPath, echo.WrapHandler(d.Metrics.Handler()))
	}
	e.Use(requestLogger(d.Logger))
	if origins := corsOrigins(d.Config.HTTP); len(origins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: origins}))
	}

	requireAuth := auth.Middleware(d.Issuer, d.Users, d.Logger)
	api := e.Group("/api/v1")

	h := v1.NewHandler(d.Service, d.Config.ProjectName, d.Logger)
	h.RegisterRoutes(e, api, requireAuth)

	wsServer := ws.NewServer(d.Service, ws.Options{
		PingInterval:   d.Config.WS.PingInterval,
		WriteTimeout:   d.Config.WS.WriteTimeout,
		ReadTimeout:    d.Config.WS.ReadTimeout,
		MaxMessageSize: d.Config.WS.MaxMessageSize,
	}, d.Logger)
	api.GET("/completions/ws", wsServer.Handle, requireAuth)

	return e
}

// corsOrigins falls back to the frontend URL when no origins are listed.
func corsOrigins(cfg config.HTTP) []string {
	if len(cfg.CORSOrigins) > 0 {
		return cfg.CORSOrigins
	}
	if cfg.FrontendURL != "" {
		return []string{cfg.FrontendURL}
	}
	return nil
}

// requestLogger attaches a request-scoped logger to the request context and
// logs one line per request.
func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	logRequest := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logging.Ctx(c.Request().Context(), logger)
			ev := l.Info()
			if v.Error != nil {
				ev = l.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		logged := logRequest(next)
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			l := logger.With().Str("request_id", reqID).Logger()
			c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
			return logged(c)
		}
	}
}
