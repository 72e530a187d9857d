package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/helioref/referral-server/internal/model"
)

// MessageRepo provides access to messages and per-partner announcement
// read state. Announcements are single rows shared by every partner, so
// read and delete flags live in announcement_reads keyed by
// (message_id, partner_id); private messages carry their flag inline.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// CreateAnnouncement inserts a broadcast announcement authored by an
// admin.
func (r *MessageRepo) CreateAnnouncement(ctx context.Context, senderID uint64, subject, content string) (model.Message, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO messages (sender_id, sender_role, recipient_id, kind, subject, content)
		 VALUES (?,?,NULL,?,?,?)`,
		senderID, model.SenderAdmin, model.MessageAnnouncement, subject, content)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{
		ID:         uint64(id),
		SenderID:   senderID,
		SenderRole: model.SenderAdmin,
		Kind:       model.MessageAnnouncement,
		Subject:    subject,
		Content:    content,
	}, nil
}

// CreatePrivate inserts a private message between a sender and a
// recipient.
func (r *MessageRepo) CreatePrivate(ctx context.Context, senderID uint64, senderRole string, recipientID uint64, subject, content string) (model.Message, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO messages (sender_id, sender_role, recipient_id, kind, subject, content)
		 VALUES (?,?,?,?,?,?)`,
		senderID, senderRole, recipientID, model.MessagePrivate, subject, content)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{
		ID:          uint64(id),
		SenderID:    senderID,
		SenderRole:  senderRole,
		RecipientID: &recipientID,
		Kind:        model.MessagePrivate,
		Subject:     subject,
		Content:     content,
	}, nil
}

// InboxItem is a message as seen by one partner: for announcements the
// read flag comes from their announcement_reads row.
type InboxItem struct {
	model.Message
	SenderName string `json:"sender_name"`
}

const inboxColumns = `m.id, m.sender_id, m.sender_role, m.recipient_id, m.kind, m.subject, m.content, m.created_at, m.updated_at, p.full_name`

func scanInbox(row interface{ Scan(...any) error }, extra ...any) (InboxItem, error) {
	var it InboxItem
	var recipient sql.NullInt64
	dest := []any{&it.ID, &it.SenderID, &it.SenderRole, &recipient, &it.Kind,
		&it.Subject, &it.Content, &it.CreatedAt, &it.UpdatedAt, &it.SenderName}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return InboxItem{}, err
	}
	if recipient.Valid {
		v := uint64(recipient.Int64)
		it.RecipientID = &v
	}
	return it, nil
}

// ListForPartner returns the partner's inbox newest first: every
// announcement they have not locally deleted, plus private messages
// addressed to them.
func (r *MessageRepo) ListForPartner(ctx context.Context, partnerID uint64) ([]InboxItem, error) {
	const q = `SELECT ` + inboxColumns + `, COALESCE(ar.is_read, m.is_read)
	           FROM messages m
	           JOIN partners p ON p.id = m.sender_id
	           LEFT JOIN announcement_reads ar ON ar.message_id = m.id AND ar.partner_id = ?
	           WHERE (m.kind = 'announcement' AND COALESCE(ar.is_deleted, FALSE) = FALSE)
	              OR (m.kind = 'private' AND m.recipient_id = ?)
	           ORDER BY m.created_at DESC`
	return r.listWithRead(ctx, q, partnerID, partnerID)
}

func (r *MessageRepo) listWithRead(ctx context.Context, q string, args ...any) ([]InboxItem, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]InboxItem, 0)
	for rows.Next() {
		var isRead bool
		it, err := scanInbox(rows, &isRead)
		if err != nil {
			return nil, err
		}
		it.IsRead = isRead
		out = append(out, it)
	}
	return out, rows.Err()
}

// UnreadCount returns how many inbox items the partner has not read yet.
func (r *MessageRepo) UnreadCount(ctx context.Context, partnerID uint64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM messages m
	           LEFT JOIN announcement_reads ar ON ar.message_id = m.id AND ar.partner_id = ?
	           WHERE (m.kind = 'announcement' AND COALESCE(ar.is_deleted, FALSE) = FALSE AND COALESCE(ar.is_read, FALSE) = FALSE)
	              OR (m.kind = 'private' AND m.recipient_id = ? AND m.is_read = FALSE)`
	var n int
	err := r.DB.QueryRowContext(ctx, q, partnerID, partnerID).Scan(&n)
	return n, err
}

// MarkRead flags a message as read for the partner. Announcements upsert
// into announcement_reads; private messages require the partner to be the
// recipient, anything else returns ErrForbidden. Unknown ids return
// ErrNotFound.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID, partnerID uint64) error {
	kind, _, recipientID, err := r.lookup(ctx, messageID)
	if err != nil {
		return err
	}
	if kind == model.MessageAnnouncement {
		_, err = r.DB.ExecContext(ctx,
			`INSERT INTO announcement_reads (message_id, partner_id, is_read, read_at)
			 VALUES (?,?,TRUE,UTC_TIMESTAMP())
			 ON DUPLICATE KEY UPDATE is_read = TRUE`, messageID, partnerID)
		return err
	}
	if recipientID == nil || *recipientID != partnerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = ?`, messageID)
	return err
}

// Delete removes a message from the partner's inbox. Announcements are
// flagged deleted per partner; private messages are removed outright and
// either party, sender or recipient, may do so.
func (r *MessageRepo) Delete(ctx context.Context, messageID, partnerID uint64) error {
	kind, senderID, recipientID, err := r.lookup(ctx, messageID)
	if err != nil {
		return err
	}
	if kind == model.MessageAnnouncement {
		_, err = r.DB.ExecContext(ctx,
			`INSERT INTO announcement_reads (message_id, partner_id, is_deleted)
			 VALUES (?,?,TRUE)
			 ON DUPLICATE KEY UPDATE is_deleted = TRUE`, messageID, partnerID)
		return err
	}
	if !canDeletePrivate(senderID, recipientID, partnerID) {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, messageID)
	return err
}

// canDeletePrivate reports whether partnerID is a party to the private
// message, as its sender or its recipient.
func canDeletePrivate(senderID uint64, recipientID *uint64, partnerID uint64) bool {
	if senderID == partnerID {
		return true
	}
	return recipientID != nil && *recipientID == partnerID
}

func (r *MessageRepo) lookup(ctx context.Context, messageID uint64) (kind string, senderID uint64, recipientID *uint64, err error) {
	var recipient sql.NullInt64
	err = r.DB.QueryRowContext(ctx,
		`SELECT kind, sender_id, recipient_id FROM messages WHERE id = ?`, messageID).Scan(&kind, &senderID, &recipient)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, nil, ErrNotFound
	}
	if err != nil {
		return "", 0, nil, err
	}
	if recipient.Valid {
		v := uint64(recipient.Int64)
		recipientID = &v
	}
	return kind, senderID, recipientID, nil
}

// ListReceivedByAdmin returns private messages partners sent to admins,
// newest first.
func (r *MessageRepo) ListReceivedByAdmin(ctx context.Context, adminID uint64) ([]InboxItem, error) {
	const q = `SELECT ` + inboxColumns + `, m.is_read
	           FROM messages m
	           JOIN partners p ON p.id = m.sender_id
	           WHERE m.kind = 'private' AND m.recipient_id = ?
	           ORDER BY m.created_at DESC`
	return r.listWithRead(ctx, q, adminID)
}
