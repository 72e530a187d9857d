package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/config"
	"github.com/helioref/referral-server/internal/middleware"
	"github.com/helioref/referral-server/internal/model"
	"github.com/helioref/referral-server/internal/repository"
	"github.com/helioref/referral-server/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints. IsAdmin decides
// at registration time whether an email gets the admin role; the default
// policy is the ADMIN_EMAILS allow-list from config.
type AuthHandler struct {
	Cfg      config.Config
	IsAdmin  config.AdminPolicy
	Partners *repository.PartnerRepo
	Tokens   *repository.TokenRepo
	Log      *zap.Logger
}

func NewAuthHandler(cfg config.Config, policy config.AdminPolicy, p *repository.PartnerRepo, t *repository.TokenRepo, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, IsAdmin: policy, Partners: p, Tokens: t, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	PartnerType string  `json:"partner_type"` // business | individual
	Phone       string  `json:"phone"`
	City        string  `json:"city"`
	Siret       *string `json:"siret"`
	GDPRConsent bool    `json:"gdpr_consent"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type partnerPart struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
	PartnerType string `json:"partner_type"`
}
type authResp struct {
	Partner partnerPart `json:"partner"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// Register creates a partner account and returns a token pair. Explicit
// GDPR consent is required; the consent timestamp is stored with the
// profile. Accounts whose email the admin policy recognizes are created
// with the admin role, everyone else is a partner.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if strings.TrimSpace(req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}
	if !model.ValidPartnerType(req.PartnerType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "partner_type must be business or individual"})
	}
	if !req.GDPRConsent {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gdpr consent required"})
	}
	if req.PartnerType == model.PartnerTypeBusiness && (req.Siret == nil || strings.TrimSpace(*req.Siret) == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "siret required for business partners"})
	}

	role := model.RolePartner
	if h.IsAdmin(req.Email) {
		role = model.RoleAdmin
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Partner{
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          role,
		FullName:      strings.TrimSpace(req.FullName),
		PartnerType:   req.PartnerType,
		Phone:         strings.TrimSpace(req.Phone),
		City:          strings.TrimSpace(req.City),
		Siret:         req.Siret,
		GDPRConsentAt: time.Now().UTC(),
	}
	uid, err := h.Partners.Create(ctx, &p)
	if err != nil {
		return repoError(c, err, "create partner failed")
	}
	h.Log.Info("partner registered",
		zap.Uint64("partner_id", uid),
		zap.String("partner_type", req.PartnerType),
		zap.String("role", role))

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Partner: partnerPart{ID: uid, Email: p.Email, Role: role, FullName: p.FullName, PartnerType: p.PartnerType},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Partners.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(p.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.ID, p.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Partner: partnerPart{ID: p.ID, Email: p.Email, Role: p.Role, FullName: p.FullName, PartnerType: p.PartnerType},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Refresh validates a refresh token by hash, rotates it and returns a new
// pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	partnerID, err := h.Tokens.FindRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.DeleteRefresh(ctx, hash) // rotate: old token stops working now
	_ = h.Tokens.DeleteExpired(ctx)

	p, err := h.Partners.GetByID(ctx, partnerID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.ID, p.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Partner: partnerPart{ID: p.ID, Email: p.Email, Role: p.Role, FullName: p.FullName, PartnerType: p.PartnerType},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// Logout revokes the supplied refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tokens.DeleteRefresh(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated partner's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.Partners.GetByID(ctx, middleware.PartnerID(c))
	if err != nil {
		return repoError(c, err, "load profile failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
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
	})
}
