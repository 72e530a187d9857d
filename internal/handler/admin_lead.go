package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/metrics"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/queue"
	"github.com/helioref/referral-server/internal/repository"
	"github.com/helioref/referral-server/internal/reward"
	queue_publisher "github.com/helioref/referral-server/internal/service"
)

// AdminLeadHandler serves the admin lead endpoints, including the status
// transition that awards rewards.
type AdminLeadHandler struct {
	DB          *sql.DB
	Leads       *repository.LeadRepo
	Commissions *repository.CommissionRepo
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

func NewAdminLeadHandler(db *sql.DB, l *repository.LeadRepo, co *repository.CommissionRepo, m *metrics.Metrics, log *zap.Logger) *AdminLeadHandler {
	return &AdminLeadHandler{DB: db, Leads: l, Commissions: co, Metrics: m, Log: log}
}

// List returns every lead with the owning partner's name and type.
func (h *AdminLeadHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Leads.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list leads failed"})
	}
	return c.JSON(http.StatusOK, out)
}

type updateStatusReq struct {
	Status         string `json:"status"`
	NetAmountCents *int64 `json:"net_amount_cents"`
}

// UpdateStatus sets a lead's lifecycle status. Statuses may be set in any
// order; only the transition into installed has side effects. That
// transition runs in one transaction: validate the business rules, update
// the lead, create the reward record. The UNIQUE key on commissions.lead_id
// makes a replayed transition a no-op for the reward, so the operation is
// idempotent end to end.
func (h *AdminLeadHandler) UpdateStatus(c echo.Context) error {
	leadID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || leadID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidLeadStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
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

	lead, partner, err := h.Leads.GetWithPartnerTx(ctx, tx, leadID)
	if err != nil {
		return repoError(c, err, "load lead failed")
	}

	if req.Status != model.StatusInstalled {
		if err := h.Leads.UpdateStatusTx(ctx, tx, leadID, req.Status, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
		}
		committed = true
		h.Metrics.StatusTransition(req.Status)
		lead.Status = req.Status
		return c.JSON(http.StatusOK, lead)
	}

	// Installed transition. Business rules first, then the mutation, so a
	// rejection leaves nothing changed.
	now := time.Now().UTC()
	var commission *model.Commission
	var netForUpdate *int64

	switch partner.PartnerType {
	case model.PartnerTypeBusiness:
		if req.NetAmountCents == nil || *req.NetAmountCents <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "positive net_amount_cents required for business partner"})
		}
		netForUpdate = req.NetAmountCents
		commission = &model.Commission{
			LeadID:         leadID,
			PartnerID:      partner.ID,
			AmountCents:    reward.CommissionAmount(*req.NetAmountCents),
			Kind:           model.KindPercentage,
			NetAmountCents: req.NetAmountCents,
		}
	case model.PartnerTypeIndividual:
		start, end := reward.Window(partner.CreatedAt, now)
		count, err := h.Leads.CountInstalledInWindowTx(ctx, tx, partner.ID, leadID, start, end)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count referrals failed"})
		}
		if count >= reward.MaxAnnualReferrals {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": fmt.Sprintf("annual referral cap of %d reached; next eligibility window starts %s",
					reward.MaxAnnualReferrals, end.Format("2006-01-02")),
			})
		}
		ordinal := count + 1
		if amount := reward.VoucherAmount(ordinal); amount > 0 {
			commission = &model.Commission{
				LeadID:          leadID,
				PartnerID:       partner.ID,
				AmountCents:     amount,
				Kind:            model.KindVoucher,
				ReferralOrdinal: &ordinal,
			}
		}
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown partner type"})
	}

	if err := h.Leads.UpdateStatusTx(ctx, tx, leadID, model.StatusInstalled, netForUpdate); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}

	rewardCreated := false
	if commission != nil {
		switch err := h.Commissions.CreateTx(ctx, tx, commission); {
		case err == nil:
			rewardCreated = true
		case errors.Is(err, repository.ErrDuplicateReward):
			// Replay of an earlier transition; the existing reward stands.
			h.Log.Info("reward already exists, skipping",
				zap.Uint64("lead_id", leadID),
				zap.Uint64("partner_id", partner.ID))
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reward failed"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Metrics.StatusTransition(model.StatusInstalled)
	lead.Status = model.StatusInstalled
	if netForUpdate != nil {
		lead.NetAmountCents = netForUpdate
	}

	resp := echo.Map{"lead": lead}
	if rewardCreated {
		h.Metrics.RewardCreated(commission.Kind)
		h.Log.Info("reward created",
			zap.Uint64("commission_id", commission.ID),
			zap.Uint64("lead_id", leadID),
			zap.Uint64("partner_id", partner.ID),
			zap.String("kind", commission.Kind),
			zap.Int64("amount_cents", commission.AmountCents))
		resp["commission"] = commission

		// Fire and forget: the reward is committed, a broker outage only
		// costs the notification.
		ev := queue.RewardCreatedEvent{
			CommissionID: commission.ID,
			LeadID:       leadID,
			PartnerID:    partner.ID,
			PartnerName:  partner.FullName,
			Kind:         commission.Kind,
			AmountCents:  commission.AmountCents,
			CreatedAt:    now.Format(time.RFC3339),
		}
		go func() { _ = queue_publisher.PublishRewardCreated(context.Background(), ev) }()
	}
	return c.JSON(http.StatusOK, resp)
}
