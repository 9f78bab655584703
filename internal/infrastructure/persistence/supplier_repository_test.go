package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/jewelerp/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newMockSupplierRepository creates a GormSupplierRepository with a mocked SQL connection
func newMockSupplierRepository(t *testing.T) (*GormSupplierRepository, sqlmock.Sqlmock, *sql.DB) {
	mdb := testutil.NewMockDB(t)
	return NewGormSupplierRepository(mdb.DB), mdb.Mock, mdb.SqlDB
}

func TestNewGormSupplierRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormSupplierRepository_FindByID(t *testing.T) {
	t.Run("finds existing supplier", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		supplierID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "type", "status", "gstin", "state_code", "balance", "credit_days"}).
			AddRow(supplierID, tenantID, "SUP001", "Ratanlal Bullion", "bullion_dealer", "active", "27AAPFU0939F1ZV", "27", decimal.Zero, 30)

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(supplierID, 1).
			WillReturnRows(rows)

		supplier, err := repo.FindByID(context.Background(), supplierID)

		require.NoError(t, err)
		assert.Equal(t, supplierID, supplier.ID)
		assert.Equal(t, "SUP001", supplier.Code)
		assert.Equal(t, partner.SupplierTypeBullionDealer, supplier.Type)
		assert.Equal(t, "27", supplier.GSTIN.StateCode())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing supplier", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		supplierID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(supplierID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		supplier, err := repo.FindByID(context.Background(), supplierID)

		assert.Nil(t, supplier)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_FindByIDForTenant(t *testing.T) {
	t.Run("scopes the lookup to the tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		supplierID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "type", "status", "gstin", "state_code"}).
			AddRow(supplierID, tenantID, "SUP002", "Shree Karigar Works", "karigar", "active", "24AAACC1206D1ZM", "24")

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, supplierID, 1).
			WillReturnRows(rows)

		supplier, err := repo.FindByIDForTenant(context.Background(), tenantID, supplierID)

		require.NoError(t, err)
		assert.Equal(t, tenantID, supplier.TenantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for another tenant's supplier", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		supplier, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, supplier)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSupplierRepository_FindByCode(t *testing.T) {
	t.Run("normalizes the code to upper case", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "type", "status", "gstin", "state_code"}).
			AddRow(uuid.New(), tenantID, "SUP003", "Hallmark Services", "service", "active", "29AABCT1332L1ZU", "29")

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 AND code = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "SUP003", 1).
			WillReturnRows(rows)

		supplier, err := repo.FindByCode(context.Background(), tenantID, "sup003")

		require.NoError(t, err)
		assert.Equal(t, "SUP003", supplier.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_FindByGSTIN(t *testing.T) {
	t.Run("finds supplier by GSTIN", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		gstin := partner.GSTIN("27AAPFU0939F1ZV")

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "type", "status", "gstin", "state_code"}).
			AddRow(uuid.New(), tenantID, "SUP001", "Ratanlal Bullion", "bullion_dealer", "active", gstin.String(), "27")

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 AND gstin = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, gstin.String(), 1).
			WillReturnRows(rows)

		supplier, err := repo.FindByGSTIN(context.Background(), tenantID, gstin)

		require.NoError(t, err)
		assert.Equal(t, gstin, supplier.GSTIN)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty GSTIN without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		supplier, err := repo.FindByGSTIN(context.Background(), uuid.New(), partner.GSTIN(""))

		assert.Nil(t, supplier)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_FindAllForTenant(t *testing.T) {
	t.Run("returns suppliers with total count", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		countRows := sqlmock.NewRows([]string{"count"}).AddRow(2)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "suppliers" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(countRows)

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "type", "status", "gstin", "state_code"}).
			AddRow(uuid.New(), tenantID, "SUP001", "Ratanlal Bullion", "bullion_dealer", "active", "27AAPFU0939F1ZV", "27").
			AddRow(uuid.New(), tenantID, "SUP002", "Shree Karigar Works", "karigar", "active", "24AAACC1206D1ZM", "24")

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(rows)

		suppliers, total, err := repo.FindAllForTenant(context.Background(), tenantID, shared.Filter{Page: 1, PageSize: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, suppliers, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies the status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "suppliers" WHERE tenant_id = \$1 AND status = \$2`).
			WithArgs(tenantID, "blocked").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE tenant_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := shared.Filter{Page: 1, PageSize: 20, Filters: map[string]interface{}{"status": "blocked"}}
		suppliers, total, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, suppliers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_Delete(t *testing.T) {
	t.Run("deletes existing supplier", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		supplierID := uuid.New()

		mock.ExpectExec(`DELETE FROM "suppliers" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, supplierID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), tenantID, supplierID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockSupplierRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "suppliers" WHERE tenant_id = \$1 AND id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
