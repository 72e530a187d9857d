package router

import (
	"github.com/labstack/echo/v4"

	"github.com/helioref/referral-server/internal/handler"
	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
)

// AdminHandlers groups the handlers mounted on the admin surface.
type AdminHandlers struct {
	Leads    *handler.AdminLeadHandler
	Payments *handler.AdminPaymentHandler
	Users    *handler.AdminUserHandler
	Alerts   *handler.AdminAlertHandler
	Messages *handler.AdminMessageHandler
}

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Leads ----
	g.GET("/leads", h.Leads.List)
	g.PATCH("/leads/:id/status", h.Leads.UpdateStatus)

	// ---- Payments ----
	g.GET("/payment-requests", h.Payments.List)
	g.POST("/payment-requests", h.Payments.CreateOnBehalf)
	g.POST("/payment-requests/:id/process", h.Payments.Process)

	// ---- Users ----
	g.GET("/users", h.Users.List)
	g.GET("/users/:id", h.Users.Get)
	g.DELETE("/users/:id", h.Users.Purge)

	// ---- Reports ----
	g.GET("/stats", h.Alerts.Stats)
	g.GET("/anniversary-alerts", h.Alerts.AnniversaryAlerts)
	g.GET("/reconciliation", h.Alerts.Reconciliation)

	// ---- Messages ----
	g.POST("/announcements", h.Messages.Announce)
	g.POST("/messages", h.Messages.SendPrivate)
	g.GET("/messages/received", h.Messages.Received)
}
