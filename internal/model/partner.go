package model

import "time"

// Partner types. The type is fixed at registration and decides how a
// converted referral is rewarded: businesses earn a percentage commission
// on the net sale amount, individuals earn fixed vouchers from the annual
// tier grid.
const (
	PartnerTypeBusiness   = "business"
	PartnerTypeIndividual = "individual"
)

// Account roles stored in the role claim of access tokens.
const (
	RoleAdmin   = "ADMIN"
	RolePartner = "PARTNER"
)

// ValidPartnerType reports whether s is a known partner type.
func ValidPartnerType(s string) bool {
	return s == PartnerTypeBusiness || s == PartnerTypeIndividual
}

// Partner represents a referral partner ("apporteur") as stored in the
// `partners` table. CreatedAt anchors the partner's reward year: the
// eligibility window for vouchers and the annual cap runs from anniversary
// to anniversary of this timestamp, not over the calendar year.
//
// Fields:
//  ID               – primary key identifier.
//  Email            – unique email address (login identity).
//  PasswordHash     – bcrypt hashed password.
//  Role             – ADMIN or PARTNER.
//  FullName         – display name of the partner.
//  PartnerType      – business or individual; immutable after creation.
//  Phone            – contact phone number.
//  City             – city of residence or registered office.
//  Siret            – SIRET number, business partners only (nullable).
//  GDPRConsentAt    – when the partner accepted data processing.
//  CreatedAt        – profile creation; anchors the reward year.
//  UpdatedAt        – timestamp of last update.
type Partner struct {
	ID            uint64    `json:"id"`              // partners.id
	Email         string    `json:"email"`           // partners.email
	PasswordHash  string    `json:"-"`               // partners.password_hash
	Role          string    `json:"role"`            // partners.role
	FullName      string    `json:"full_name"`       // partners.full_name
	PartnerType   string    `json:"partner_type"`    // partners.partner_type
	Phone         string    `json:"phone"`           // partners.phone
	City          string    `json:"city"`            // partners.city
	Siret         *string   `json:"siret,omitempty"` // partners.siret (nullable)
	GDPRConsentAt time.Time `json:"gdpr_consent_at"` // partners.gdpr_consent_at
	CreatedAt     time.Time `json:"created_at"`      // partners.created_at
	UpdatedAt     time.Time `json:"updated_at"`      // partners.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  PartnerID – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64    `json:"id"`         // refresh_tokens.id
	PartnerID uint64    `json:"partner_id"` // refresh_tokens.partner_id
	TokenHash string    `json:"-"`          // refresh_tokens.token_hash
	ExpiresAt time.Time `json:"expires_at"` // refresh_tokens.expires_at
	CreatedAt time.Time `json:"created_at"` // refresh_tokens.created_at
}
