package model

import "time"

// Payment request statuses. Completed and rejected are terminal; a request
// is processed exactly once.
const (
	PaymentRequested = "requested"
	PaymentCompleted = "completed"
	PaymentRejected  = "rejected"
)

// PaymentRequest captures a partner's request to pay out their pending
// commissions. AmountCents is a snapshot of the pending balance at request
// time and is not recomputed later.
//
// Fields:
//  ID          – primary key identifier.
//  PartnerID   – partner requesting payout.
//  AmountCents – pending balance snapshot in cents at request time.
//  Status      – requested, completed or rejected.
//  Method      – how the payout was made, e.g. transfer or voucher
//                (nullable, set at processing).
//  RequestedAt – creation timestamp.
//  ProcessedAt – when the admin processed the request (nullable).
type PaymentRequest struct {
	ID          uint64     `json:"id"`                     // payment_requests.id
	PartnerID   uint64     `json:"partner_id"`             // payment_requests.partner_id
	AmountCents int64      `json:"amount_cents"`           // payment_requests.amount_cents
	Status      string     `json:"status"`                 // payment_requests.status
	Method      *string    `json:"method,omitempty"`       // payment_requests.method (nullable)
	RequestedAt time.Time  `json:"requested_at"`           // payment_requests.requested_at
	ProcessedAt *time.Time `json:"processed_at,omitempty"` // payment_requests.processed_at (nullable)
}
