// Package testutil holds the shared fixtures for unit tests that need
// a database double. Integration tests that want a real Postgres use
// tests/integration instead.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jewelerp/backend/internal/infrastructure/logger"
)

// MockDB is a GORM handle backed by sqlmock, for repository tests
// that assert on the exact SQL without a running database.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB opens a mocked Postgres connection. The connection is
// closed automatically when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = sqlDB.Close() })

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: sqlDB}
}

// ExpectationsWereMet fails the test if any expected statement was
// not executed.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewTestUUID derives a stable UUID from a seed, so tests can assert
// on IDs without hardcoding hex strings.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID is the shop every test runs as unless it says otherwise.
func TestTenantID() uuid.UUID {
	return NewTestUUID("shop-jaipur-01")
}

// TenantContext returns a context stamped with the given shop, the
// same way the auth middleware stamps real requests.
func TenantContext(tenantID uuid.UUID) context.Context {
	ctx, _ := logger.WithTenantID(context.Background(), logger.FromContext(context.Background()), tenantID.String())
	return ctx
}
