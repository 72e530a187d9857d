package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/helioref/referral-server/internal/model"
)

// PartnerRepo provides access to the partners table and the cascade purge
// used by the admin.
type PartnerRepo struct{ DB *sql.DB }

func NewPartnerRepo(db *sql.DB) *PartnerRepo { return &PartnerRepo{DB: db} }

const partnerColumns = `id, email, password_hash, role, full_name, partner_type, phone, city, siret, gdpr_consent_at, created_at, updated_at`

func scanPartner(row interface{ Scan(...any) error }) (model.Partner, error) {
	var p model.Partner
	var siret sql.NullString
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.FullName,
		&p.PartnerType, &p.Phone, &p.City, &siret, &p.GDPRConsentAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Partner{}, err
	}
	if siret.Valid {
		s := siret.String
		p.Siret = &s
	}
	return p, nil
}

// Create inserts a new partner and returns its ID. The email is
// normalized to lower case before insertion; a duplicate yields
// ErrEmailExists.
func (r *PartnerRepo) Create(ctx context.Context, p *model.Partner) (uint64, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO partners (email, password_hash, role, full_name, partner_type, phone, city, siret, gdpr_consent_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Email, p.PasswordHash, p.Role, p.FullName, p.PartnerType, p.Phone, p.City, p.Siret, p.GDPRConsentAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a partner by normalized email. Returns ErrNotFound
// when no such account exists.
func (r *PartnerRepo) GetByEmail(ctx context.Context, email string) (model.Partner, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	p, err := scanPartner(r.DB.QueryRowContext(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE email = ? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Partner{}, ErrNotFound
	}
	return p, err
}

// GetByID fetches a partner by id. Returns ErrNotFound when absent.
func (r *PartnerRepo) GetByID(ctx context.Context, id uint64) (model.Partner, error) {
	p, err := scanPartner(r.DB.QueryRowContext(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Partner{}, ErrNotFound
	}
	return p, err
}

// PartnerStats is a partner row augmented with activity aggregates for the
// admin user listing.
type PartnerStats struct {
	ID                 uint64     `json:"id"`
	FullName           string     `json:"full_name"`
	PartnerType        string     `json:"partner_type"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	City               string     `json:"city"`
	CreatedAt          time.Time  `json:"created_at"`
	TotalLeads         int        `json:"total_leads"`
	PendingCommissions int64      `json:"pending_commissions_cents"`
	PaidCommissions    int64      `json:"paid_commissions_cents"`
	LastActivity       *time.Time `json:"last_activity,omitempty"`
}

// ListWithStats returns every partner account with lead counts, pending
// and paid commission totals and the latest activity timestamp. Admin
// accounts are excluded: they own no leads and would only add noise.
func (r *PartnerRepo) ListWithStats(ctx context.Context) ([]PartnerStats, error) {
	const q = `SELECT p.id, p.full_name, p.partner_type, p.email, p.phone, p.city, p.created_at,
	                  COUNT(DISTINCT l.id),
	                  COALESCE(SUM(CASE WHEN c.status = 'pending' THEN c.amount_cents END), 0),
	                  COALESCE(SUM(CASE WHEN c.status = 'paid' THEN c.amount_cents END), 0),
	                  GREATEST(COALESCE(MAX(l.updated_at), p.created_at), COALESCE(MAX(c.updated_at), p.created_at))
	           FROM partners p
	           LEFT JOIN leads l ON l.partner_id = p.id
	           LEFT JOIN commissions c ON c.partner_id = p.id
	           WHERE p.role = 'PARTNER'
	           GROUP BY p.id, p.full_name, p.partner_type, p.email, p.phone, p.city, p.created_at
	           ORDER BY p.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PartnerStats, 0)
	for rows.Next() {
		var s PartnerStats
		var last time.Time
		if err := rows.Scan(&s.ID, &s.FullName, &s.PartnerType, &s.Email, &s.Phone, &s.City,
			&s.CreatedAt, &s.TotalLeads, &s.PendingCommissions, &s.PaidCommissions, &last); err != nil {
			return nil, err
		}
		s.LastActivity = &last
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountPartners returns the number of partner accounts (admins excluded).
func (r *PartnerRepo) CountPartners(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM partners WHERE role = 'PARTNER'`).Scan(&n)
	return n, err
}

// PurgeTx deletes a partner and every entity they own inside the given
// transaction: messages either way, announcement read state, commissions,
// payment requests, leads, refresh tokens, then the profile itself.
// Returns ErrNotFound when the partner does not exist.
func (r *PartnerRepo) PurgeTx(ctx context.Context, tx *sql.Tx, partnerID uint64) error {
	var exists uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM partners WHERE id = ?`, partnerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	steps := []string{
		`DELETE FROM announcement_reads WHERE partner_id = ?`,
		`DELETE FROM messages WHERE sender_id = ? OR recipient_id = ?`,
		`DELETE FROM commissions WHERE partner_id = ?`,
		`DELETE FROM payment_requests WHERE partner_id = ?`,
		`DELETE FROM leads WHERE partner_id = ?`,
		`DELETE FROM refresh_tokens WHERE partner_id = ?`,
		`DELETE FROM partners WHERE id = ?`,
	}
	for _, q := range steps {
		args := []any{partnerID}
		if strings.Count(q, "?") == 2 {
			args = append(args, partnerID)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}
