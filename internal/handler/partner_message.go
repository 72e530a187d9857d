package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/repository"
)

// PartnerMessageHandler serves the partner inbox: announcements broadcast
// by admins plus private conversations.
type PartnerMessageHandler struct {
	Messages *repository.MessageRepo
	Partners *repository.PartnerRepo
}

func NewPartnerMessageHandler(m *repository.MessageRepo, p *repository.PartnerRepo) *PartnerMessageHandler {
	return &PartnerMessageHandler{Messages: m, Partners: p}
}

// Inbox lists the partner's messages newest first.
func (h *PartnerMessageHandler) Inbox(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Messages.ListForPartner(ctx, middleware.PartnerID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list messages failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// UnreadCount returns the number of unread inbox items.
func (h *PartnerMessageHandler) UnreadCount(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	n, err := h.Messages.UnreadCount(ctx, middleware.PartnerID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count messages failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

type sendMessageReq struct {
	RecipientID uint64 `json:"recipient_id"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
}

// Send creates a private message from the partner to an admin account.
// Partners can only address admins; partner-to-partner mail is not a
// thing in this program.
func (h *PartnerMessageHandler) Send(c echo.Context) error {
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

	recipient, err := h.Partners.GetByID(ctx, req.RecipientID)
	if err != nil {
		return repoError(c, err, "load recipient failed")
	}
	if recipient.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "recipient must be an administrator"})
	}

	msg, err := h.Messages.CreatePrivate(ctx, middleware.PartnerID(c), model.SenderPartner, req.RecipientID, req.Subject, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send message failed"})
	}
	return c.JSON(http.StatusCreated, msg)
}

// MarkRead flags a message read for the partner.
func (h *PartnerMessageHandler) MarkRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Messages.MarkRead(ctx, id, middleware.PartnerID(c)); err != nil {
		return repoError(c, err, "mark read failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a message from the partner's inbox.
func (h *PartnerMessageHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Messages.Delete(ctx, id, middleware.PartnerID(c)); err != nil {
		return repoError(c, err, "delete message failed")
	}
	return c.NoContent(http.StatusNoContent)
}
