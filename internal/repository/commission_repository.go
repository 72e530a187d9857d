package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/helioref/referral-server/internal/model"
)

// CommissionRepo provides access to the commissions table. Reward creation
// and the bulk mark-paid both run in caller transactions.
type CommissionRepo struct{ DB *sql.DB }

func NewCommissionRepo(db *sql.DB) *CommissionRepo { return &CommissionRepo{DB: db} }

const commissionColumns = `id, lead_id, partner_id, amount_cents, status, kind, net_amount_cents, referral_ordinal, created_at, updated_at`

func scanCommission(row interface{ Scan(...any) error }) (model.Commission, error) {
	var c model.Commission
	var net sql.NullInt64
	var ord sql.NullInt64
	err := row.Scan(&c.ID, &c.LeadID, &c.PartnerID, &c.AmountCents, &c.Status, &c.Kind,
		&net, &ord, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Commission{}, err
	}
	if net.Valid {
		v := net.Int64
		c.NetAmountCents = &v
	}
	if ord.Valid {
		v := int(ord.Int64)
		c.ReferralOrdinal = &v
	}
	return c, nil
}

// CreateTx inserts a reward record inside the transaction. The unique key
// on lead_id makes the insert idempotent per lead: a second attempt yields
// ErrDuplicateReward and the caller leaves the existing reward untouched.
func (r *CommissionRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Commission) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO commissions (lead_id, partner_id, amount_cents, status, kind, net_amount_cents, referral_ordinal)
		 VALUES (?,?,?,?,?,?,?)`,
		c.LeadID, c.PartnerID, c.AmountCents, model.CommissionPending, c.Kind, c.NetAmountCents, c.ReferralOrdinal)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateReward
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	c.Status = model.CommissionPending
	return nil
}

// PendingBalance returns the sum of the partner's pending commissions in
// cents.
func (r *CommissionRepo) PendingBalance(ctx context.Context, partnerID uint64) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM commissions WHERE partner_id = ? AND status = 'pending'`,
		partnerID).Scan(&total)
	return total, err
}

// PendingBalanceTx is PendingBalance inside a caller transaction, locking
// the pending rows so the snapshot and the later bulk flip see the same
// set.
func (r *CommissionRepo) PendingBalanceTx(ctx context.Context, tx *sql.Tx, partnerID uint64) (int64, error) {
	var total int64
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM commissions WHERE partner_id = ? AND status = 'pending' FOR UPDATE`,
		partnerID).Scan(&total)
	return total, err
}

// MarkAllPaidTx flips every pending commission of the partner to paid and
// returns how many rows changed. Runs inside the payment processing
// transaction.
func (r *CommissionRepo) MarkAllPaidTx(ctx context.Context, tx *sql.Tx, partnerID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE commissions SET status = 'paid' WHERE partner_id = ? AND status = 'pending'`,
		partnerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByPartner returns a partner's commissions newest first.
func (r *CommissionRepo) ListByPartner(ctx context.Context, partnerID uint64) ([]model.Commission, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE partner_id = ? ORDER BY created_at DESC`,
		partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Commission, 0)
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TotalPaid returns the lifetime paid total for the partner in cents.
func (r *CommissionRepo) TotalPaid(ctx context.Context, partnerID uint64) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM commissions WHERE partner_id = ? AND status = 'paid'`,
		partnerID).Scan(&total)
	return total, err
}

// Totals aggregates reward amounts across the whole program for the admin
// stats view.
type Totals struct {
	PendingCents int64 `json:"pending_cents"`
	PaidCents    int64 `json:"paid_cents"`
}

// GlobalTotals returns pending and paid sums across all partners.
func (r *CommissionRepo) GlobalTotals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN status = 'pending' THEN amount_cents END), 0),
		        COALESCE(SUM(CASE WHEN status = 'paid' THEN amount_cents END), 0)
		 FROM commissions`).Scan(&t.PendingCents, &t.PaidCents)
	return t, err
}

// VoucherSummary aggregates a partner's pending voucher rewards for the
// anniversary alert view.
type VoucherSummary struct {
	PartnerID           uint64    `json:"partner_id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	PartnerCreatedAt    time.Time `json:"-"`
	PendingVoucherCents int64     `json:"pending_voucher_cents"`
	PendingVoucherCount int       `json:"pending_voucher_count"`
}

// PendingVoucherSummaries returns, per individual partner, the pending
// voucher rewards still owed. Partners without pending vouchers are
// included with zeros so the anniversary scan covers every individual
// account.
func (r *CommissionRepo) PendingVoucherSummaries(ctx context.Context) ([]VoucherSummary, error) {
	const q = `SELECT p.id, p.full_name, p.email, p.created_at,
	                  COALESCE(SUM(CASE WHEN c.status = 'pending' AND c.kind = 'voucher' THEN c.amount_cents END), 0),
	                  COALESCE(SUM(CASE WHEN c.status = 'pending' AND c.kind = 'voucher' THEN 1 ELSE 0 END), 0)
	           FROM partners p
	           LEFT JOIN commissions c ON c.partner_id = p.id
	           WHERE p.role = 'PARTNER' AND p.partner_type = 'individual'
	           GROUP BY p.id, p.full_name, p.email, p.created_at
	           ORDER BY p.created_at ASC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]VoucherSummary, 0)
	for rows.Next() {
		var s VoucherSummary
		if err := rows.Scan(&s.PartnerID, &s.FullName, &s.Email, &s.PartnerCreatedAt,
			&s.PendingVoucherCents, &s.PendingVoucherCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
