package model

import "time"

// Lead lifecycle statuses, in nominal order. Transitions are admin-set and
// the order is not enforced; only entry into StatusInstalled has side
// effects (reward creation).
const (
	StatusSubmitted = "submitted"
	StatusVisited   = "visited"
	StatusSigned    = "signed"
	StatusInstalled = "installed"
)

// LeadStatuses lists all valid statuses in lifecycle order.
var LeadStatuses = []string{StatusSubmitted, StatusVisited, StatusSigned, StatusInstalled}

// ValidLeadStatus reports whether s is a known lifecycle status.
func ValidLeadStatus(s string) bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Lead is a prospect submitted by a partner, tracked through the
// installation lifecycle. NetAmountCents is the net sale amount in cents;
// it is only set when a business partner's lead is marked installed and is
// the basis of the percentage commission.
//
// Fields:
//  ID             – primary key identifier.
//  PartnerID      – partner who submitted the lead.
//  ProspectName   – prospect full name.
//  ProspectPhone  – prospect phone number.
//  ProspectEmail  – prospect email address.
//  ProspectCity   – prospect city (nullable).
//  Notes          – free-text notes from the partner (nullable).
//  Status         – lifecycle status (submitted, visited, signed, installed).
//  NetAmountCents – net sale amount in cents (nullable).
//  CreatedAt      – submission timestamp; used for eligibility-window counts.
//  UpdatedAt      – timestamp of last update.
type Lead struct {
	ID             uint64    `json:"id"`                         // leads.id
	PartnerID      uint64    `json:"partner_id"`                 // leads.partner_id
	ProspectName   string    `json:"prospect_name"`              // leads.prospect_name
	ProspectPhone  string    `json:"prospect_phone"`             // leads.prospect_phone
	ProspectEmail  string    `json:"prospect_email"`             // leads.prospect_email
	ProspectCity   *string   `json:"prospect_city,omitempty"`    // leads.prospect_city (nullable)
	Notes          *string   `json:"notes,omitempty"`            // leads.notes (nullable)
	Status         string    `json:"status"`                     // leads.status
	NetAmountCents *int64    `json:"net_amount_cents,omitempty"` // leads.net_amount_cents (nullable)
	CreatedAt      time.Time `json:"created_at"`                 // leads.created_at
	UpdatedAt      time.Time `json:"updated_at"`                 // leads.updated_at
}
