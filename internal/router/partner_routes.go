package router

import (
	"github.com/labstack/echo/v4"

	"github.com/helioref/referral-server/internal/handler"
	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
)

// PartnerHandlers groups the handlers mounted on the partner surface.
type PartnerHandlers struct {
	Leads       *handler.PartnerLeadHandler
	Dashboard   *handler.PartnerDashboardHandler
	Commissions *handler.PartnerCommissionHandler
	Messages    *handler.PartnerMessageHandler
}

// RegisterPartner registers PARTNER-scoped endpoints under /v1/partner.
// All routes require a valid JWT and the PARTNER role; rateLimit
// additionally guards the write endpoints.
func RegisterPartner(e *echo.Echo, h PartnerHandlers, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/partner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePartner),
	)

	// ---- Leads ----
	g.POST("/leads", h.Leads.Submit, rateLimit)
	g.GET("/leads", h.Leads.List)

	// ---- Dashboard ----
	g.GET("/dashboard", h.Dashboard.Dashboard)

	// ---- Rewards & payouts ----
	g.GET("/commissions", h.Commissions.List)
	g.GET("/balance", h.Commissions.Balance)
	g.POST("/payment-requests", h.Commissions.RequestPayment, rateLimit)
	g.GET("/payment-requests", h.Commissions.ListPayments)

	// ---- Messages ----
	g.GET("/messages", h.Messages.Inbox)
	g.GET("/messages/unread-count", h.Messages.UnreadCount)
	g.POST("/messages", h.Messages.Send, rateLimit)
	g.POST("/messages/:id/read", h.Messages.MarkRead)
	g.DELETE("/messages/:id", h.Messages.Delete)
}
