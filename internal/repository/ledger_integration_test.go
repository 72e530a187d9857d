package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helioref/referral-server/internal/migrations"
	"github.com/helioref/referral-server/internal/model"
)

// Opt-in integration test against a real MySQL. Set TEST_DB_DSN to a DSN
// with parseTime=true pointing at a throwaway database, e.g.
//
//	TEST_DB_DSN='referral:secret@tcp(localhost:3306)/referral_test?parseTime=true'
//
// Unset, the test is skipped. It exercises the two ledger properties that
// depend on MySQL semantics and cannot be checked without it: the
// uq_commissions_lead key making reward creation a no-op on replay, and
// MarkAllPaidTx draining the pending balance to zero.
func TestLedgerPropertiesIntegration(t *testing.T) {
	dsn := testDSN(t)
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping())
	require.NoError(t, migrations.Run(db, zap.NewNop()))

	ctx := context.Background()
	partners := NewPartnerRepo(db)
	leads := NewLeadRepo(db)
	commissions := NewCommissionRepo(db)

	partnerID, err := partners.Create(ctx, &model.Partner{
		Email:         fmt.Sprintf("ledger-%d@helioref.fr", time.Now().UnixNano()),
		PasswordHash:  "x",
		Role:          model.RolePartner,
		FullName:      "Ledger Partner",
		PartnerType:   model.PartnerTypeIndividual,
		Phone:         "0600000000",
		GDPRConsentAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	lead := model.Lead{PartnerID: partnerID, ProspectName: "P", ProspectPhone: "0601020304", ProspectEmail: "p@x.fr"}
	require.NoError(t, leads.Create(ctx, &lead))

	reward := model.Commission{LeadID: lead.ID, PartnerID: partnerID, AmountCents: 25000, Kind: model.KindVoucher}
	inTx(t, db, func(tx *sql.Tx) error { return commissions.CreateTx(ctx, tx, &reward) })

	// Replaying the same lead must hit uq_commissions_lead, not insert.
	dup := model.Commission{LeadID: lead.ID, PartnerID: partnerID, AmountCents: 25000, Kind: model.KindVoucher}
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, commissions.CreateTx(ctx, tx, &dup), ErrDuplicateReward)
	require.NoError(t, tx.Rollback())

	balance, err := commissions.PendingBalance(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), balance)

	var flipped int64
	inTx(t, db, func(tx *sql.Tx) error {
		flipped, err = commissions.MarkAllPaidTx(ctx, tx, partnerID)
		return err
	})
	assert.Equal(t, int64(1), flipped)

	balance, err = commissions.PendingBalance(ctx, partnerID)
	require.NoError(t, err)
	assert.Zero(t, balance, "paying out must drain the pending balance")

	_, err = partners.GetByID(ctx, partnerID+1_000_000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	return dsn
}

func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, fn(tx))
	require.NoError(t, tx.Commit())
}
