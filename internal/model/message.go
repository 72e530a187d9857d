package model

import "time"

// Message kinds. Announcements are broadcast to every partner and have no
// recipient; private messages link a sender and a recipient.
const (
	MessageAnnouncement = "announcement"
	MessagePrivate      = "private"
)

// Message sender roles.
const (
	SenderAdmin   = "admin"
	SenderPartner = "partner"
)

// Message is either a broadcast announcement or a private message between
// a partner and an admin. IsRead only applies to private messages; the
// read/delete state of announcements is tracked per partner in
// announcement_reads since the announcement row itself is shared.
//
// Fields:
//  ID          – primary key identifier.
//  SenderID    – author of the message.
//  SenderRole  – admin or partner.
//  RecipientID – recipient (nullable; NULL marks an announcement).
//  Kind        – announcement or private.
//  Subject     – message subject line.
//  Content     – message body.
//  IsRead      – read flag (private messages only).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – timestamp of last update.
type Message struct {
	ID          uint64    `json:"id"`                     // messages.id
	SenderID    uint64    `json:"sender_id"`              // messages.sender_id
	SenderRole  string    `json:"sender_role"`            // messages.sender_role
	RecipientID *uint64   `json:"recipient_id,omitempty"` // messages.recipient_id (nullable)
	Kind        string    `json:"kind"`                   // messages.kind
	Subject     string    `json:"subject"`                // messages.subject
	Content     string    `json:"content"`                // messages.content
	IsRead      bool      `json:"is_read"`                // messages.is_read
	CreatedAt   time.Time `json:"created_at"`             // messages.created_at
	UpdatedAt   time.Time `json:"updated_at"`             // messages.updated_at
}

// AnnouncementRead tracks, per partner, whether a shared announcement has
// been read or locally deleted. UNIQUE(message_id, partner_id) in the
// schema makes the upsert idempotent.
//
// Fields:
//  ID        – primary key identifier.
//  MessageID – the announcement.
//  PartnerID – the partner whose state this row holds.
//  IsRead    – partner has read the announcement.
//  IsDeleted – partner removed the announcement from their inbox.
//  ReadAt    – when the announcement was first marked read.
type AnnouncementRead struct {
	ID        uint64    `json:"id"`         // announcement_reads.id
	MessageID uint64    `json:"message_id"` // announcement_reads.message_id
	PartnerID uint64    `json:"partner_id"` // announcement_reads.partner_id
	IsRead    bool      `json:"is_read"`    // announcement_reads.is_read
	IsDeleted bool      `json:"is_deleted"` // announcement_reads.is_deleted
	ReadAt    time.Time `json:"read_at"`    // announcement_reads.read_at
}
