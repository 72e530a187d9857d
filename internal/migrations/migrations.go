// Package migrations applies the embedded SQL schema with goose. The
// schema is the source of truth for the storage-level invariants the
// handlers rely on, in particular the UNIQUE constraint on
// commissions.lead_id that makes reward creation idempotent per lead even
// under concurrent installed transitions.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var embedded embed.FS

// Run applies all pending migrations against the given database.
func Run(db *sql.DB, logger *zap.Logger) error {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}
