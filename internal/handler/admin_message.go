package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/repository"
)

// AdminMessageHandler serves the admin messaging endpoints.
type AdminMessageHandler struct {
	Messages *repository.MessageRepo
	Partners *repository.PartnerRepo
	Log      *zap.Logger
}

func NewAdminMessageHandler(m *repository.MessageRepo, p *repository.PartnerRepo, log *zap.Logger) *AdminMessageHandler {
	return &AdminMessageHandler{Messages: m, Partners: p, Log: log}
}

type announceReq struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// Announce broadcasts an announcement to every partner. One row is stored;
// read and delete state is tracked per partner.
func (h *AdminMessageHandler) Announce(c echo.Context) error {
	var req announceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Subject = strings.TrimSpace(req.Subject)
	req.Content = strings.TrimSpace(req.Content)
	if req.Subject == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject and content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	msg, err := h.Messages.CreateAnnouncement(ctx, middleware.PartnerID(c), req.Subject, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create announcement failed"})
	}
	h.Log.Info("announcement published", zap.Uint64("message_id", msg.ID))
	return c.JSON(http.StatusCreated, msg)
}

// SendPrivate sends a private message from the admin to one partner.
func (h *AdminMessageHandler) SendPrivate(c echo.Context) error {
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Subject = strings.TrimSpace(req.Subject)
	req.Content = strings.TrimSpace(req.Content)
	if req.RecipientID == 0 || req.Subject == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recipient_id, subject and content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if _, err := h.Partners.GetByID(ctx, req.RecipientID); err != nil {
		return repoError(c, err, "load recipient failed")
	}
	msg, err := h.Messages.CreatePrivate(ctx, middleware.PartnerID(c), model.SenderAdmin, req.RecipientID, req.Subject, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send message failed"})
	}
	return c.JSON(http.StatusCreated, msg)
}

// Received lists private messages partners sent to this admin.
func (h *AdminMessageHandler) Received(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Messages.ListReceivedByAdmin(ctx, middleware.PartnerID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list messages failed"})
	}
	return c.JSON(http.StatusOK, out)
}
