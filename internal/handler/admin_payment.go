package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/metrics"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/queue"
	"github.com/helioref/referral-server/internal/repository"
	queue_publisher "github.com/helioref/referral-server/internal/service"
)

// AdminPaymentHandler serves the admin payout endpoints.
type AdminPaymentHandler struct {
	DB          *sql.DB
	Partners    *repository.PartnerRepo
	Commissions *repository.CommissionRepo
	Payments    *repository.PaymentRepo
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

func NewAdminPaymentHandler(db *sql.DB, partners *repository.PartnerRepo, co *repository.CommissionRepo, pay *repository.PaymentRepo, m *metrics.Metrics, log *zap.Logger) *AdminPaymentHandler {
	return &AdminPaymentHandler{DB: db, Partners: partners, Commissions: co, Payments: pay, Metrics: m, Log: log}
}

// List returns payment requests with partner context, newest first.
// Supports ?status= filtering and ?limit=/?offset= pagination.
func (h *AdminPaymentHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	switch status {
	case "", model.PaymentRequested, model.PaymentCompleted, model.PaymentRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Payments.List(ctx, status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list payment requests failed"})
	}
	return c.JSON(http.StatusOK, out)
}

type processPaymentReq struct {
	Action string  `json:"action"` // complete | reject
	Method *string `json:"method"` // transfer, voucher... recorded on completion
}

// Process completes or rejects a payment request. Completion flips every
// commission of the partner that is pending at processing time to paid,
// in the same transaction; rewards accrued after the request was opened
// are paid along with it. Terminal requests are never revisited.
func (h *AdminPaymentHandler) Process(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment request id"})
	}
	var req processPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var outcome string
	switch req.Action {
	case "complete":
		outcome = model.PaymentCompleted
	case "reject":
		outcome = model.PaymentRejected
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be complete or reject"})
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

	pr, err := h.Payments.GetRequestedTx(ctx, tx, id)
	if err != nil {
		return repoError(c, err, "load payment request failed")
	}

	var flipped int64
	if outcome == model.PaymentCompleted {
		flipped, err = h.Commissions.MarkAllPaidTx(ctx, tx, pr.PartnerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark commissions paid failed"})
		}
	}
	if err := h.Payments.ProcessTx(ctx, tx, id, outcome, req.Method); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "process payment failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Metrics.PaymentProcessed(outcome)
	h.Log.Info("payment request processed",
		zap.Uint64("payment_request_id", id),
		zap.Uint64("partner_id", pr.PartnerID),
		zap.String("outcome", outcome),
		zap.Int64("commissions_paid", flipped))

	method := ""
	if req.Method != nil {
		method = *req.Method
	}
	ev := queue.PaymentProcessedEvent{
		PaymentRequestID: id,
		PartnerID:        pr.PartnerID,
		AmountCents:      pr.AmountCents,
		Outcome:          outcome,
		Method:           method,
		ProcessedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue_publisher.PublishPaymentProcessed(context.Background(), ev) }()

	return c.JSON(http.StatusOK, echo.Map{
		"payment_request_id": id,
		"status":             outcome,
		"commissions_paid":   flipped,
	})
}

type onBehalfReq struct {
	PartnerID uint64 `json:"partner_id"`
}

// CreateOnBehalf opens a payout request for a partner, same rules as the
// partner-initiated flow.
func (h *AdminPaymentHandler) CreateOnBehalf(c echo.Context) error {
	var req onBehalfReq
	if err := c.Bind(&req); err != nil || req.PartnerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "partner_id required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Partners.GetByID(ctx, req.PartnerID); err != nil {
		return repoError(c, err, "load partner failed")
	}
	pr, err := createPaymentRequest(ctx, h.DB, h.Commissions, h.Payments, req.PartnerID)
	if err != nil {
		if errors.Is(err, errZeroBalance) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no pending rewards to pay out"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payment request failed"})
	}
	h.Log.Info("payment requested on behalf",
		zap.Uint64("partner_id", req.PartnerID),
		zap.Uint64("payment_request_id", pr.ID))
	return c.JSON(http.StatusCreated, pr)
}

func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
