package handler

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/repository"
)

// AdminUserHandler serves the admin account management endpoints.
type AdminUserHandler struct {
	DB          *sql.DB
	Partners    *repository.PartnerRepo
	Leads       *repository.LeadRepo
	Commissions *repository.CommissionRepo
	Payments    *repository.PaymentRepo
	Log         *zap.Logger
}

func NewAdminUserHandler(db *sql.DB, p *repository.PartnerRepo, l *repository.LeadRepo, co *repository.CommissionRepo, pay *repository.PaymentRepo, log *zap.Logger) *AdminUserHandler {
	return &AdminUserHandler{DB: db, Partners: p, Leads: l, Commissions: co, Payments: pay, Log: log}
}

// List returns every partner with activity aggregates.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Partners.ListWithStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list partners failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one partner's full details: profile, leads, rewards and
// payment requests.
func (h *AdminUserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid partner id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Partners.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "load partner failed")
	}
	leads, err := h.Leads.ListByPartner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load leads failed"})
	}
	commissions, err := h.Commissions.ListByPartner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load rewards failed"})
	}
	payments, err := h.Payments.ListByPartner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load payment requests failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"partner": echo.Map{
			"id":              p.ID,
			"email":           p.Email,
			"role":            p.Role,
			"full_name":       p.FullName,
			"partner_type":    p.PartnerType,
			"phone":           p.Phone,
			"city":            p.City,
			"siret":           p.Siret,
			"gdpr_consent_at": p.GDPRConsentAt,
			"created_at":      p.CreatedAt,
		},
		"leads":            leads,
		"commissions":      commissions,
		"payment_requests": payments,
	})
}

// Purge deletes a partner and everything they own in one transaction. The
// confirm flag is required so the destructive path cannot be hit by
// accident.
func (h *AdminUserHandler) Purge(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid partner id"})
	}
	if c.QueryParam("confirm") != "true" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirm=true required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin transaction failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Partners.PurgeTx(ctx, tx, id); err != nil {
		return repoError(c, err, "purge partner failed")
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Log.Info("partner purged", zap.Uint64("partner_id", id))
	return c.NoContent(http.StatusNoContent)
}
