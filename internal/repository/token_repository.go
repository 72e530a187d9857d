package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo stores refresh-token hashes. The raw token never touches the
// database; callers hash it first.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh saves a refresh token hash for a partner.
func (r *TokenRepo) StoreRefresh(ctx context.Context, partnerID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (partner_id, token_hash, expires_at) VALUES (?,?,?)`,
		partnerID, tokenHash, expiresAt)
	return err
}

// FindRefresh returns the owning partner ID for a non-expired token hash.
// Returns ErrNotFound when the hash is unknown or expired.
func (r *TokenRepo) FindRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var partnerID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT partner_id FROM refresh_tokens WHERE token_hash = ? AND expires_at > UTC_TIMESTAMP() LIMIT 1`,
		tokenHash).Scan(&partnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return partnerID, err
}

// DeleteRefresh removes a refresh token by hash, invalidating the session.
// Deleting an unknown hash is not an error.
func (r *TokenRepo) DeleteRefresh(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = ?`, tokenHash)
	return err
}

// DeleteExpired clears out tokens past their expiry. Called opportunistically
// from the auth handler; there is no background sweeper.
func (r *TokenRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= UTC_TIMESTAMP()`)
	return err
}
