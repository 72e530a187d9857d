package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/helioref/referral-server/internal/repository"
	"github.com/helioref/referral-server/internal/reward"
)

// AdminAlertHandler serves the admin reporting endpoints: global stats,
// the anniversary alert scan and the reward reconciliation scan.
type AdminAlertHandler struct {
	Partners    *repository.PartnerRepo
	Leads       *repository.LeadRepo
	Commissions *repository.CommissionRepo
	Payments    *repository.PaymentRepo
}

func NewAdminAlertHandler(p *repository.PartnerRepo, l *repository.LeadRepo, co *repository.CommissionRepo, pay *repository.PaymentRepo) *AdminAlertHandler {
	return &AdminAlertHandler{Partners: p, Leads: l, Commissions: co, Payments: pay}
}

// Stats returns the program-wide totals for the admin home screen.
func (h *AdminAlertHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	partners, err := h.Partners.CountPartners(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count partners failed"})
	}
	leads, err := h.Leads.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count leads failed"})
	}
	totals, err := h.Commissions.GlobalTotals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reward totals failed"})
	}
	openPayments, err := h.Payments.CountOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count payment requests failed"})
	}
	alerts, err := h.anniversaryAlerts(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan anniversaries failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"partners":              partners,
		"leads":                 leads,
		"pending_rewards_cents": totals.PendingCents,
		"paid_rewards_cents":    totals.PaidCents,
		"open_payment_requests": openPayments,
		"anniversary_alerts":    len(alerts),
	})
}

// anniversaryAlertItem is one row of the anniversary report.
type anniversaryAlertItem struct {
	PartnerID           uint64    `json:"partner_id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	PendingVoucherCents int64     `json:"pending_voucher_cents"`
	PendingVoucherCount int       `json:"pending_voucher_count"`
	NextAnniversary     time.Time `json:"next_anniversary"`
	DaysUntil           int       `json:"days_until"`
	DaysSinceLast       int       `json:"days_since_last"`
	Passed              bool      `json:"passed"`
}

// AnniversaryAlerts lists individual partners holding pending vouchers
// whose reward anniversary is near: recently passed ones first (vouchers
// may be expiring unpaid), then upcoming ones by ascending days-until.
func (h *AdminAlertHandler) AnniversaryAlerts(c echo.Context) error {
	items, err := h.anniversaryAlerts(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan anniversaries failed"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminAlertHandler) anniversaryAlerts(c echo.Context) ([]anniversaryAlertItem, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	summaries, err := h.Commissions.PendingVoucherSummaries(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]anniversaryAlertItem, 0)
	for _, s := range summaries {
		if s.PendingVoucherCents == 0 {
			continue
		}
		alert, ok := reward.AnniversaryAlert(s.PartnerCreatedAt, now)
		if !ok {
			continue
		}
		items = append(items, anniversaryAlertItem{
			PartnerID:           s.PartnerID,
			FullName:            s.FullName,
			Email:               s.Email,
			PendingVoucherCents: s.PendingVoucherCents,
			PendingVoucherCount: s.PendingVoucherCount,
			NextAnniversary:     alert.NextAnniversary,
			DaysUntil:           alert.DaysUntil,
			DaysSinceLast:       alert.DaysSinceLast,
			Passed:              alert.Passed,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Passed != items[j].Passed {
			return items[i].Passed
		}
		if items[i].Passed {
			return items[i].DaysSinceLast < items[j].DaysSinceLast
		}
		return items[i].DaysUntil < items[j].DaysUntil
	})
	return items, nil
}

// Reconciliation lists installed leads that have no reward record. The
// installed transition writes both in one transaction, so this report
// should stay empty; anything on it means manual repair is needed, and the
// scan never re-creates rewards on its own.
func (h *AdminAlertHandler) Reconciliation(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Leads.ListInstalledWithoutReward(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconciliation scan failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(out),
		"leads": out,
	})
}
