package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/metrics"
	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/repository"
)

// PartnerCommissionHandler serves the partner's reward balance and payout
// requests.
type PartnerCommissionHandler struct {
	DB          *sql.DB
	Commissions *repository.CommissionRepo
	Payments    *repository.PaymentRepo
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

func NewPartnerCommissionHandler(db *sql.DB, co *repository.CommissionRepo, pay *repository.PaymentRepo, m *metrics.Metrics, log *zap.Logger) *PartnerCommissionHandler {
	return &PartnerCommissionHandler{DB: db, Commissions: co, Payments: pay, Metrics: m, Log: log}
}

// List returns the partner's reward records newest first.
func (h *PartnerCommissionHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Commissions.ListByPartner(ctx, middleware.PartnerID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rewards failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Balance returns the partner's pending and lifetime paid totals.
func (h *PartnerCommissionHandler) Balance(c echo.Context) error {
	partnerID := middleware.PartnerID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	pending, err := h.Commissions.PendingBalance(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load balance failed"})
	}
	paid, err := h.Commissions.TotalPaid(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load balance failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"pending_cents": pending, "paid_cents": paid})
}

// RequestPayment opens a payout request snapshotting the pending balance.
// A zero balance is rejected; the snapshot and the insert share one
// transaction so a reward created mid-request cannot straddle them.
func (h *PartnerCommissionHandler) RequestPayment(c echo.Context) error {
	partnerID := middleware.PartnerID(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	pr, err := createPaymentRequest(ctx, h.DB, h.Commissions, h.Payments, partnerID)
	if err != nil {
		if errors.Is(err, errZeroBalance) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no pending rewards to pay out"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payment request failed"})
	}
	h.Log.Info("payment requested",
		zap.Uint64("partner_id", partnerID),
		zap.Uint64("payment_request_id", pr.ID),
		zap.Int64("amount_cents", pr.AmountCents))
	return c.JSON(http.StatusCreated, pr)
}

// ListPayments returns the partner's payout requests newest first.
func (h *PartnerCommissionHandler) ListPayments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Payments.ListByPartner(ctx, middleware.PartnerID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list payment requests failed"})
	}
	return c.JSON(http.StatusOK, out)
}

var errZeroBalance = errors.New("pending balance is zero")

// createPaymentRequest snapshots the pending balance and records the
// request in one transaction. Shared with the admin on-behalf endpoint.
func createPaymentRequest(ctx context.Context, db *sql.DB, commissions *repository.CommissionRepo, payments *repository.PaymentRepo, partnerID uint64) (pr model.PaymentRequest, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return pr, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	balance, err := commissions.PendingBalanceTx(ctx, tx, partnerID)
	if err != nil {
		return pr, err
	}
	if balance == 0 {
		return pr, errZeroBalance
	}
	created, err := payments.CreateTx(ctx, tx, partnerID, balance)
	if err != nil {
		return pr, err
	}
	if err = tx.Commit(); err != nil {
		return pr, err
	}
	return created, nil
}
