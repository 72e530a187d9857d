// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// RewardCreatedEvent is published when an installed lead earns its reward.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type RewardCreatedEvent struct {
	CommissionID uint64 `json:"commission_id"`
	LeadID       uint64 `json:"lead_id"`
	PartnerID    uint64 `json:"partner_id"`
	PartnerName  string `json:"partner_name"`
	Kind         string `json:"kind"`
	AmountCents  int64  `json:"amount_cents"`
	CreatedAt    string `json:"created_at"`
}

// PaymentProcessedEvent is published when an admin completes or rejects a
// payment request.
type PaymentProcessedEvent struct {
	PaymentRequestID uint64 `json:"payment_request_id"`
	PartnerID        uint64 `json:"partner_id"`
	AmountCents      int64  `json:"amount_cents"`
	Outcome          string `json:"outcome"`
	Method           string `json:"method,omitempty"`
	ProcessedAt      string `json:"processed_at"`
}
