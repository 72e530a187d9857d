package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/helioref/referral-server/internal/model"
)

// PaymentRepo provides access to the payment_requests table.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentColumns = `id, partner_id, amount_cents, status, method, requested_at, processed_at`

func scanPayment(row interface{ Scan(...any) error }, extra ...any) (model.PaymentRequest, error) {
	var p model.PaymentRequest
	var method sql.NullString
	var processed sql.NullTime
	dest := []any{&p.ID, &p.PartnerID, &p.AmountCents, &p.Status, &method, &p.RequestedAt, &processed}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.PaymentRequest{}, err
	}
	if method.Valid {
		v := method.String
		p.Method = &v
	}
	if processed.Valid {
		v := processed.Time
		p.ProcessedAt = &v
	}
	return p, nil
}

// CreateTx inserts a payment request snapshotting the given pending
// balance, inside the transaction that computed it.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, partnerID uint64, amountCents int64) (model.PaymentRequest, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payment_requests (partner_id, amount_cents, status) VALUES (?,?,?)`,
		partnerID, amountCents, model.PaymentRequested)
	if err != nil {
		return model.PaymentRequest{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PaymentRequest{}, err
	}
	return model.PaymentRequest{
		ID:          uint64(id),
		PartnerID:   partnerID,
		AmountCents: amountCents,
		Status:      model.PaymentRequested,
		RequestedAt: time.Now().UTC(),
	}, nil
}

// GetRequestedTx loads a payment request by id inside the transaction,
// locking the row. Returns ErrNotFound when the id is unknown and
// ErrAlreadyProcessed when the request left the requested state.
func (r *PaymentRepo) GetRequestedTx(ctx context.Context, tx *sql.Tx, id uint64) (model.PaymentRequest, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests WHERE id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.PaymentRequest{}, ErrNotFound
	}
	if err != nil {
		return model.PaymentRequest{}, err
	}
	if p.Status != model.PaymentRequested {
		return model.PaymentRequest{}, ErrAlreadyProcessed
	}
	return p, nil
}

// ProcessTx marks the request completed or rejected, recording the method
// and processing time, inside the transaction.
func (r *PaymentRepo) ProcessTx(ctx context.Context, tx *sql.Tx, id uint64, status string, method *string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE payment_requests SET status = ?, method = ?, processed_at = UTC_TIMESTAMP() WHERE id = ?`,
		status, method, id)
	return err
}

// AdminPayment is a payment request joined with its partner's name and
// type for the admin listing.
type AdminPayment struct {
	model.PaymentRequest
	PartnerName string `json:"partner_name"`
	PartnerType string `json:"partner_type"`
}

// List returns payment requests newest first, optionally filtered by
// status, with offset pagination.
func (r *PaymentRepo) List(ctx context.Context, status string, limit, offset int) ([]AdminPayment, error) {
	q := `SELECT pr.id, pr.partner_id, pr.amount_cents, pr.status, pr.method, pr.requested_at, pr.processed_at,
	             p.full_name, p.partner_type
	      FROM payment_requests pr
	      JOIN partners p ON p.id = pr.partner_id`
	args := []any{}
	if status != "" {
		q += ` WHERE pr.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY pr.requested_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminPayment, 0)
	for rows.Next() {
		var a AdminPayment
		p, err := scanPayment(rows, &a.PartnerName, &a.PartnerType)
		if err != nil {
			return nil, err
		}
		a.PaymentRequest = p
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByPartner returns the partner's own payment requests newest first.
func (r *PaymentRepo) ListByPartner(ctx context.Context, partnerID uint64) ([]model.PaymentRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests WHERE partner_id = ? ORDER BY requested_at DESC`,
		partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PaymentRequest, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountOpen returns the number of requests still awaiting processing.
func (r *PaymentRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payment_requests WHERE status = 'requested'`).Scan(&n)
	return n, err
}
