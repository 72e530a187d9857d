package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/metrics"
	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/repository"
)

// PartnerLeadHandler serves the partner-facing lead endpoints.
type PartnerLeadHandler struct {
	Leads   *repository.LeadRepo
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewPartnerLeadHandler(l *repository.LeadRepo, m *metrics.Metrics, log *zap.Logger) *PartnerLeadHandler {
	return &PartnerLeadHandler{Leads: l, Metrics: m, Log: log}
}

type submitLeadReq struct {
	ProspectName  string  `json:"prospect_name"`
	ProspectPhone string  `json:"prospect_phone"`
	ProspectEmail string  `json:"prospect_email"`
	ProspectCity  *string `json:"prospect_city"`
	Notes         *string `json:"notes"`
}

// Submit creates a new lead in submitted status for the authenticated
// partner. There is no cap at submission; eligibility is judged when the
// lead is marked installed.
func (h *PartnerLeadHandler) Submit(c echo.Context) error {
	var req submitLeadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ProspectName = strings.TrimSpace(req.ProspectName)
	req.ProspectPhone = strings.TrimSpace(req.ProspectPhone)
	req.ProspectEmail = strings.ToLower(strings.TrimSpace(req.ProspectEmail))
	if req.ProspectName == "" || req.ProspectPhone == "" || req.ProspectEmail == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prospect name, phone and email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	lead := model.Lead{
		PartnerID:     middleware.PartnerID(c),
		ProspectName:  req.ProspectName,
		ProspectPhone: req.ProspectPhone,
		ProspectEmail: req.ProspectEmail,
		ProspectCity:  req.ProspectCity,
		Notes:         req.Notes,
		Status:        model.StatusSubmitted,
	}
	if err := h.Leads.Create(ctx, &lead); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lead failed"})
	}
	h.Metrics.LeadSubmitted()
	h.Log.Info("lead submitted",
		zap.Uint64("lead_id", lead.ID),
		zap.Uint64("partner_id", lead.PartnerID))

	return c.JSON(http.StatusCreated, lead)
}

// List returns the partner's leads with the status of any reward earned.
func (h *PartnerLeadHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	leads, err := h.Leads.ListByPartner(ctx, middleware.PartnerID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list leads failed"})
	}
	return c.JSON(http.StatusOK, leads)
}
