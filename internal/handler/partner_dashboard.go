package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/repository"
	"github.com/helioref/referral-server/internal/reward"
)

// PartnerDashboardHandler aggregates the partner's home screen in one
// call: lead counts, reward balances, recent activity, unread messages and
// where they stand in the current reward year.
type PartnerDashboardHandler struct {
	Partners    *repository.PartnerRepo
	Leads       *repository.LeadRepo
	Commissions *repository.CommissionRepo
	Messages    *repository.MessageRepo
}

func NewPartnerDashboardHandler(p *repository.PartnerRepo, l *repository.LeadRepo, co *repository.CommissionRepo, m *repository.MessageRepo) *PartnerDashboardHandler {
	return &PartnerDashboardHandler{Partners: p, Leads: l, Commissions: co, Messages: m}
}

// Dashboard assembles the partner overview.
func (h *PartnerDashboardHandler) Dashboard(c echo.Context) error {
	partnerID := middleware.PartnerID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Partners.GetByID(ctx, partnerID)
	if err != nil {
		return repoError(c, err, "load profile failed")
	}
	counts, err := h.Leads.CountByStatusForPartner(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lead counts failed"})
	}
	pending, err := h.Commissions.PendingBalance(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load balance failed"})
	}
	paid, err := h.Commissions.TotalPaid(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load balance failed"})
	}
	recent, err := h.Leads.RecentByPartner(ctx, partnerID, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load recent leads failed"})
	}
	unread, err := h.Messages.UnreadCount(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load messages failed"})
	}

	now := time.Now().UTC()
	start, end := reward.Window(p.CreatedAt, now)

	resp := echo.Map{
		"leads": echo.Map{
			"total":     counts[model.StatusSubmitted] + counts[model.StatusVisited] + counts[model.StatusSigned] + counts[model.StatusInstalled],
			"submitted": counts[model.StatusSubmitted],
			"visited":   counts[model.StatusVisited],
			"signed":    counts[model.StatusSigned],
			"installed": counts[model.StatusInstalled],
		},
		"rewards": echo.Map{
			"pending_cents": pending,
			"paid_cents":    paid,
		},
		"reward_year": echo.Map{
			"window_start": start,
			"window_end":   end,
		},
		"recent_leads":    recent,
		"unread_messages": unread,
	}
	if p.PartnerType == model.PartnerTypeIndividual {
		resp["reward_year"].(echo.Map)["annual_cap"] = reward.MaxAnnualReferrals
	}
	return c.JSON(http.StatusOK, resp)
}
