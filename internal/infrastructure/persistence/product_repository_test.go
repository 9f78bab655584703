package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/jewelerp/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mdb := testutil.NewMockDB(t)
	return NewGormProductRepository(mdb.DB), mdb.Mock, mdb.SqlDB
}

func TestGormProductRepository_DecrementStockIfAvailable(t *testing.T) {
	t.Run("decrements when enough stock remains", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity - \$1 WHERE tenant_id = \$2 AND id = \$3 AND stock_quantity >= \$4`).
			WithArgs(2, tenantID, productID, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DecrementStockIfAvailable(context.Background(), tenantID, productID, 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrInsufficientStock when the guard rejects the update", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity - \$1 WHERE tenant_id = \$2 AND id = \$3 AND stock_quantity >= \$4`).
			WithArgs(5, tenantID, productID, 5).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.DecrementStockIfAvailable(context.Background(), tenantID, productID, 5)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when the product does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity - \$1 WHERE tenant_id = \$2 AND id = \$3 AND stock_quantity >= \$4`).
			WithArgs(1, tenantID, productID, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.DecrementStockIfAvailable(context.Background(), tenantID, productID, 1)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a non-positive quantity without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.DecrementStockIfAvailable(context.Background(), uuid.New(), uuid.New(), 0)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_IncrementStock(t *testing.T) {
	t.Run("adds units back on cancellation", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity \+ \$1 WHERE tenant_id = \$2 AND id = \$3`).
			WithArgs(3, tenantID, productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.IncrementStock(context.Background(), tenantID, productID, 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for a missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity \+ \$1 WHERE tenant_id = \$2 AND id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.IncrementStock(context.Background(), uuid.New(), uuid.New(), 1)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
