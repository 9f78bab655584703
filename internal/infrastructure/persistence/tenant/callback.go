package tenant

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jewelerp/backend/internal/infrastructure/logger"
)

// TenantCallback is the query-time backstop: whenever the request
// context names a shop and the statement has no tenant_id condition
// yet, one is added. Creates are exempt because the repositories set
// tenant_id on the row itself.
type TenantCallback struct {
	tenantColumn string
	required     bool
}

// NewTenantCallback creates the callback handler.
func NewTenantCallback(tenantColumn string, required bool) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &TenantCallback{
		tenantColumn: tenantColumn,
		required:     required,
	}
}

// RegisterCallbacks hooks the guard into query, update, delete and row
// operations.
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	cb := db.Callback()
	_ = cb.Query().Before("gorm:query").Register("tenant:before_query", tc.guard)
	_ = cb.Update().Before("gorm:update").Register("tenant:before_update", tc.guard)
	_ = cb.Delete().Before("gorm:delete").Register("tenant:before_delete", tc.guard)
	_ = cb.Row().Before("gorm:row").Register("tenant:before_row", tc.guard)
}

func (tc *TenantCallback) guard(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Unscoped {
		return
	}
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// hasTenantCondition reports whether the statement already filters by
// tenant, either through the clause tree or hand-written SQL.
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.mentionsTenant(expr) {
					return true
				}
			}
		}
	}

	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tc.tenantColumn)
}

func (tc *TenantCallback) mentionsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Expr:
		// Raw-string conditions like Where("tenant_id = ?", id)
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.mentionsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.mentionsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter installs the guard on a DB handle.
func EnableAutoTenantFilter(db *gorm.DB, required bool) {
	NewTenantCallback("tenant_id", required).RegisterCallbacks(db)
}

// DisableAutoTenantFilter removes the guard. Test use only.
func DisableAutoTenantFilter(db *gorm.DB) {
	cb := db.Callback()
	_ = cb.Query().Remove("tenant:before_query")
	_ = cb.Update().Remove("tenant:before_update")
	_ = cb.Delete().Remove("tenant:before_delete")
	_ = cb.Row().Remove("tenant:before_row")
}
