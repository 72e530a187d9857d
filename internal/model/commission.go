package model

import "time"

// Commission statuses. A commission starts pending and is flipped to paid
// in bulk when a payment request is processed; it is never reversed.
const (
	CommissionPending = "pending"
	CommissionPaid    = "paid"
)

// Commission kinds. Percentage commissions are 5% of the lead's net sale
// amount (business partners); vouchers come from the fixed annual tier
// grid (individual partners).
const (
	KindPercentage = "percentage"
	KindVoucher    = "voucher"
)

// Commission is the reward record owed to a partner for a converted lead.
// The `commissions` table carries a UNIQUE constraint on lead_id so at most
// one reward can ever exist per lead, however many times the installed
// transition is replayed.
//
// Fields:
//  ID              – primary key identifier.
//  LeadID          – converted lead (unique per commission).
//  PartnerID       – partner owed the reward.
//  AmountCents     – reward amount in cents.
//  Status          – pending or paid.
//  Kind            – percentage or voucher.
//  NetAmountCents  – net sale basis in cents (percentage only, nullable).
//  ReferralOrdinal – installed-referral ordinal within the eligibility
//                    window at award time (voucher only, nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – timestamp of last update.
type Commission struct {
	ID              uint64    `json:"id"`                         // commissions.id
	LeadID          uint64    `json:"lead_id"`                    // commissions.lead_id
	PartnerID       uint64    `json:"partner_id"`                 // commissions.partner_id
	AmountCents     int64     `json:"amount_cents"`               // commissions.amount_cents
	Status          string    `json:"status"`                     // commissions.status
	Kind            string    `json:"kind"`                       // commissions.kind
	NetAmountCents  *int64    `json:"net_amount_cents,omitempty"` // commissions.net_amount_cents (nullable)
	ReferralOrdinal *int      `json:"referral_ordinal,omitempty"` // commissions.referral_ordinal (nullable)
	CreatedAt       time.Time `json:"created_at"`                 // commissions.created_at
	UpdatedAt       time.Time `json:"updated_at"`                 // commissions.updated_at
}
