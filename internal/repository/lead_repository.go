package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/helioref/referral-server/internal/model"
)

// LeadRepo provides access to the leads table. The Tx-scoped methods are
// the building blocks of the installed transition: the handler loads the
// lead with its partner, validates the business rules, updates the status
// and creates the reward all inside one transaction.
type LeadRepo struct{ DB *sql.DB }

func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{DB: db} }

// Create inserts a new lead in submitted status and populates its ID.
func (r *LeadRepo) Create(ctx context.Context, l *model.Lead) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO leads (partner_id, prospect_name, prospect_phone, prospect_email, prospect_city, notes, status)
		 VALUES (?,?,?,?,?,?,?)`,
		l.PartnerID, l.ProspectName, l.ProspectPhone, l.ProspectEmail, l.ProspectCity, l.Notes, model.StatusSubmitted)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// LeadDetail is a lead row augmented with its reward status for partner
// listings. CommissionStatus is nil until the lead has earned a reward.
type LeadDetail struct {
	model.Lead
	CommissionStatus *string `json:"commission_status,omitempty"`
}

func scanLead(row interface{ Scan(...any) error }, l *model.Lead, extra ...any) error {
	var city, notes sql.NullString
	var net sql.NullInt64
	dest := []any{&l.ID, &l.PartnerID, &l.ProspectName, &l.ProspectPhone, &l.ProspectEmail,
		&city, &notes, &l.Status, &net, &l.CreatedAt, &l.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if city.Valid {
		v := city.String
		l.ProspectCity = &v
	}
	if notes.Valid {
		v := notes.String
		l.Notes = &v
	}
	if net.Valid {
		v := net.Int64
		l.NetAmountCents = &v
	}
	return nil
}

const leadColumns = `l.id, l.partner_id, l.prospect_name, l.prospect_phone, l.prospect_email,
	l.prospect_city, l.notes, l.status, l.net_amount_cents, l.created_at, l.updated_at`

// ListByPartner returns a partner's leads newest first, each with the
// status of its reward record when one exists.
func (r *LeadRepo) ListByPartner(ctx context.Context, partnerID uint64) ([]LeadDetail, error) {
	const q = `SELECT ` + leadColumns + `, c.status
	           FROM leads l
	           LEFT JOIN commissions c ON c.lead_id = l.id
	           WHERE l.partner_id = ?
	           ORDER BY l.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LeadDetail, 0)
	for rows.Next() {
		var d LeadDetail
		var cs sql.NullString
		if err := scanLead(rows, &d.Lead, &cs); err != nil {
			return nil, err
		}
		if cs.Valid {
			v := cs.String
			d.CommissionStatus = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecentByPartner returns the partner's most recent leads for the
// dashboard.
func (r *LeadRepo) RecentByPartner(ctx context.Context, partnerID uint64, limit int) ([]model.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads l
	           WHERE l.partner_id = ? ORDER BY l.created_at DESC LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, q, partnerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Lead, 0, limit)
	for rows.Next() {
		var l model.Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CountByStatusForPartner returns the partner's lead counts keyed by
// status. Missing statuses are absent from the map; callers default to 0.
func (r *LeadRepo) CountByStatusForPartner(ctx context.Context, partnerID uint64) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM leads WHERE partner_id = ? GROUP BY status`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// AdminLead is a lead row joined with its partner's name and type for the
// admin listing.
type AdminLead struct {
	model.Lead
	PartnerName string `json:"partner_name"`
	PartnerType string `json:"partner_type"`
}

// ListAll returns every lead across partners, newest first.
func (r *LeadRepo) ListAll(ctx context.Context) ([]AdminLead, error) {
	const q = `SELECT ` + leadColumns + `, p.full_name, p.partner_type
	           FROM leads l
	           JOIN partners p ON p.id = l.partner_id
	           ORDER BY l.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminLead, 0)
	for rows.Next() {
		var a AdminLead
		if err := scanLead(rows, &a.Lead, &a.PartnerName, &a.PartnerType); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetWithPartnerTx loads a lead and its owning partner inside a
// transaction, locking the lead row for the duration so concurrent
// installed transitions on the same lead serialize. Returns ErrNotFound
// when the lead does not exist.
func (r *LeadRepo) GetWithPartnerTx(ctx context.Context, tx *sql.Tx, leadID uint64) (model.Lead, model.Partner, error) {
	const q = `SELECT ` + leadColumns + `, p.id, p.email, p.full_name, p.partner_type, p.created_at
	           FROM leads l
	           JOIN partners p ON p.id = l.partner_id
	           WHERE l.id = ?
	           FOR UPDATE`
	var l model.Lead
	var p model.Partner
	err := scanLead(tx.QueryRowContext(ctx, q, leadID), &l,
		&p.ID, &p.Email, &p.FullName, &p.PartnerType, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Lead{}, model.Partner{}, ErrNotFound
	}
	if err != nil {
		return model.Lead{}, model.Partner{}, err
	}
	return l, p, nil
}

// UpdateStatusTx sets a lead's status, and its net sale amount when one is
// supplied, inside the transaction.
func (r *LeadRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, leadID uint64, status string, netAmountCents *int64) error {
	if netAmountCents != nil {
		_, err := tx.ExecContext(ctx,
			`UPDATE leads SET status = ?, net_amount_cents = ? WHERE id = ?`,
			status, *netAmountCents, leadID)
		return err
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE leads SET status = ? WHERE id = ?`, status, leadID)
	return err
}

// CountInstalledInWindowTx counts a partner's installed leads whose
// created_at falls in [start, end), excluding the lead currently being
// transitioned so replays do not count themselves. This is the basis for
// both the annual cap and the voucher tier ordinal, evaluated inside the
// transaction that performs the transition.
func (r *LeadRepo) CountInstalledInWindowTx(ctx context.Context, tx *sql.Tx, partnerID, excludeLeadID uint64, start, end time.Time) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads
		 WHERE partner_id = ? AND id <> ? AND status = 'installed' AND created_at >= ? AND created_at < ?`,
		partnerID, excludeLeadID, start, end).Scan(&n)
	return n, err
}

// CountAll returns the total number of leads.
func (r *LeadRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n)
	return n, err
}

// ListInstalledWithoutReward returns installed leads that have no
// commission row. A non-empty result means a transition committed but the
// reward write was lost; the rows are surfaced to the admin for manual
// repair rather than silently re-created.
func (r *LeadRepo) ListInstalledWithoutReward(ctx context.Context) ([]AdminLead, error) {
	const q = `SELECT ` + leadColumns + `, p.full_name, p.partner_type
	           FROM leads l
	           JOIN partners p ON p.id = l.partner_id
	           LEFT JOIN commissions c ON c.lead_id = l.id
	           WHERE l.status = 'installed' AND c.id IS NULL
	           ORDER BY l.updated_at ASC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminLead, 0)
	for rows.Next() {
		var a AdminLead
		if err := scanLead(rows, &a.Lead, &a.PartnerName, &a.PartnerType); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
