package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Verify(h, p string) bool       { return h == "h:"+p }

func newTestCompany(t *testing.T, tenantID uuid.UUID, name, document string) *partner.Company {
	t.Helper()
	c, err := partner.NewCompany(tenantID, name, document, partner.CompanyTypeClient)
	require.NoError(t, err)
	return c
}

// newMockCompanyRepository creates a GormCompanyRepository with a mocked SQL connection
func newMockCompanyRepository(t *testing.T) (*GormCompanyRepository, sqlmock.Sqlmock, *sql.DB) {
	db := testutil.NewMockDB(t)
	return NewGormCompanyRepository(db.DB), db.Mock, db.SqlDB
}

func TestGormCompanyRepository_SaveWithCredentials(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCompanyRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	company := newTestCompany(t, tenantID, "acme labs", "12.345.678/0001-90")
	first, err := company.AddCredential(plainHasher{}, "ana.silva", "ana@acme.test", partner.CredentialRoleOwner, "secret123", "secret123")
	require.NoError(t, err)
	firstID := first.ID
	_, err = company.AddCredential(plainHasher{}, "bruno", "", partner.CredentialRoleViewer, "secret456", "secret456")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, company))

	found, err := repo.FindByIDForTenant(ctx, tenantID, company.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(company, found, aggregateCmpOpts); diff != "" {
		t.Errorf("persisted company mismatch (-want +got):\n%s", diff)
	}

	t.Run("disabled credential stays disabled", func(t *testing.T) {
		require.NoError(t, company.SetCredentialActive(firstID, false))
		require.NoError(t, repo.Save(ctx, company))

		found, err := repo.FindByIDForTenant(ctx, tenantID, company.ID)
		require.NoError(t, err)
		assert.False(t, found.Credentials[0].Active)
	})

	t.Run("removed credential is deleted", func(t *testing.T) {
		require.NoError(t, company.RemoveCredential(firstID))
		require.NoError(t, repo.Save(ctx, company))

		found, err := repo.FindByIDForTenant(ctx, tenantID, company.ID)
		require.NoError(t, err)
		require.Len(t, found.Credentials, 1)
		assert.Equal(t, "bruno", found.Credentials[0].Username)
	})

	t.Run("usernames are unique per tenant", func(t *testing.T) {
		taken, err := repo.ExistsByUsername(ctx, tenantID, "BRUNO")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ExistsByUsername(ctx, uuid.New(), "bruno")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("document lookup", func(t *testing.T) {
		exists, err := repo.ExistsByDocument(ctx, tenantID, "12345678000190")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestGormCompanyRepository_SaveWithTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCompanyRepository(db)
	ledger := NewGormWalletTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	company := newTestCompany(t, tenantID, "Wallet Co", "99887766")
	require.NoError(t, repo.Save(ctx, company))

	credit, err := company.Credit(decimal.NewFromInt(150), "Top up")
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithTransaction(ctx, company, credit))

	debit, err := company.Debit(decimal.RequireFromString("49.90"), "Invoice")
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithTransaction(ctx, company, debit))

	t.Run("stale balance is rejected", func(t *testing.T) {
		stale := newTestCompany(t, tenantID, "Wallet Co", "99887766")
		stale.ID = company.ID
		replay, err := stale.Credit(decimal.NewFromInt(10), "Replay")
		require.NoError(t, err)

		err = repo.SaveWithTransaction(ctx, stale, replay)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("statement is newest first", func(t *testing.T) {
		entries, total, err := ledger.FindByCompany(ctx, tenantID, company.ID, partner.WalletTransactionFilter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, entries, 2)
		assert.Equal(t, debit.ID, entries[0].ID)
		assert.Equal(t, credit.ID, entries[1].ID)
	})

	t.Run("statement filters by type and date", func(t *testing.T) {
		credits := partner.WalletTransactionTypeCredit
		entries, total, err := ledger.FindByCompany(ctx, tenantID, company.ID, partner.WalletTransactionFilter{Type: &credits})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(150)))

		future := time.Now().Add(time.Hour)
		entries, total, err = ledger.FindByCompany(ctx, tenantID, company.ID, partner.WalletTransactionFilter{DateFrom: &future})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, entries)
	})

	t.Run("summary", func(t *testing.T) {
		summary, err := ledger.Summarize(ctx, tenantID, company.ID)
		require.NoError(t, err)
		assert.True(t, summary.Balance.Equal(decimal.RequireFromString("100.10")), summary.Balance.String())
		assert.True(t, summary.TotalCredits.Equal(decimal.NewFromInt(150)))
		assert.True(t, summary.TotalDebits.Equal(decimal.RequireFromString("49.90")))
		assert.EqualValues(t, 2, summary.Count)
	})

	t.Run("summary of unknown company", func(t *testing.T) {
		_, err := ledger.Summarize(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("card references", func(t *testing.T) {
		card, err := company.Credit(decimal.NewFromInt(20), "Card top-up")
		require.NoError(t, err)
		card.WithReference("pi_123")
		card.SourceType = partner.WalletSourceCard
		require.NoError(t, repo.SaveWithTransaction(ctx, company, card))

		found, err := ledger.ExistsByReference(ctx, tenantID, partner.WalletSourceCard, "pi_123")
		require.NoError(t, err)
		assert.True(t, found)

		for _, probe := range []struct {
			tenant uuid.UUID
			source partner.WalletSourceType
			ref    string
		}{
			{tenantID, partner.WalletSourceManual, "pi_123"},
			{tenantID, partner.WalletSourceCard, "pi_999"},
			{uuid.New(), partner.WalletSourceCard, "pi_123"},
		} {
			found, err := ledger.ExistsByReference(ctx, probe.tenant, probe.source, probe.ref)
			require.NoError(t, err)
			assert.False(t, found, "%v %s %s", probe.tenant, probe.source, probe.ref)
		}
	})
}

func TestGormCompanyRepository_FindAllForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCompanyRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestCompany(t, tenantID, "Beta", "11111")))
	partnerCo, err := partner.NewCompany(tenantID, "Alpha", "22222", partner.CompanyTypePartner)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, partnerCo))

	filter := shared.Filter{OrderBy: "name", OrderDir: "asc"}
	all, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)

	filter.Filters = map[string]interface{}{"type": "partner"}
	count, err := repo.CountForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGormCompanyRepository_DatabaseErrors(t *testing.T) {
	t.Run("find propagates driver error", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE tenant_id = \$1 AND id = \$2`).
			WillReturnError(errors.New("connection reset"))

		company, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())
		assert.Nil(t, company)
		assert.EqualError(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete of missing company", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "companies" WHERE tenant_id = \$1 AND id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteForTenant(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ledger insert failure rolls back the balance", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		company := newTestCompany(t, uuid.New(), "Mock Co", "55555")
		tx, err := company.Credit(decimal.NewFromInt(5), "Top up")
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "companies" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+ AND balance = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "wallet_transactions"`).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err = repo.SaveWithTransaction(context.Background(), company, tx)
		assert.EqualError(t, err, "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
