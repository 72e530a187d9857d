// Package router registers the HTTP routes. Unauthenticated surface is
// health, metrics and /v1/auth; everything else sits behind JWTAuth with
// role gates.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/helioref/referral-server/internal/handler"
	"github.com/helioref/referral-server/internal/metrics"
	"github.com/helioref/referral-server/internal/middleware"
)

// RegisterBase registers the unauthenticated plumbing endpoints.
func RegisterBase(e *echo.Echo, h *handler.HealthHandler, m *metrics.Metrics) {
	e.GET("/healthz", h.Live)
	e.GET("/readyz", h.Ready)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}

// RegisterAuth registers the session endpoints under /v1/auth plus the
// protected /v1/me profile route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}
