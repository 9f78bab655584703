// Package tenant keeps one shop's rows away from another's. Every
// tenant-owned table carries a tenant_id column; this package provides
// explicit scopes for repositories and a GORM callback that backstops
// queries which forgot to filter.
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jewelerp/backend/internal/infrastructure/logger"
)

// ErrTenantIDRequired is returned when a query needs a tenant but the
// context carries none.
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when the tenant ID is not a UUID.
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// TenantScope filters rows to one shop.
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// TenantScopeString is TenantScope for an already-validated string ID.
func TenantScopeString(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// TenantDB wraps a GORM handle so every query derived from it carries
// the acting shop's filter.
type TenantDB struct {
	db       *gorm.DB
	required bool
}

// NewTenantDB creates a TenantDB that refuses tenant-less queries.
func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db, required: true}
}

// SetRequired returns a copy with the tenant requirement toggled.
// Platform-level jobs (gold rate refresh, migrations) run unrequired.
func (t *TenantDB) SetRequired(required bool) *TenantDB {
	return &TenantDB{db: t.db, required: required}
}

// WithContext returns a handle scoped to the tenant the middleware
// stamped into the context. A missing or malformed tenant poisons the
// handle with an error instead of silently querying across shops.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	tenantID := logger.GetTenantID(ctx)

	if tenantID == "" {
		db := t.db.WithContext(ctx)
		if t.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return db
	}

	if _, err := uuid.Parse(tenantID); err != nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidTenantID)
		return db
	}

	return t.db.WithContext(ctx).Scopes(TenantScopeString(tenantID))
}

// WithTenant returns a handle scoped to an explicit shop ID.
func (t *TenantDB) WithTenant(tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		db := t.db
		if t.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return db
	}
	return t.db.Scopes(TenantScope(tenantID))
}

// Transaction runs fn inside a transaction whose handle carries the
// context tenant's filter.
func (t *TenantDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == "" && t.required {
		return ErrTenantIDRequired
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tenantID != "" {
			tx = tx.Scopes(TenantScopeString(tenantID))
		}
		return fn(tx)
	})
}

// Unscoped hands back the raw handle. Only for platform operations
// that legitimately span shops.
func (t *TenantDB) Unscoped() *gorm.DB {
	return t.db
}
