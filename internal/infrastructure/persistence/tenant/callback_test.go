package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestNewTenantCallback(t *testing.T) {
	t.Run("empty column defaults to tenant_id", func(t *testing.T) {
		tc := NewTenantCallback("", true)
		assert.Equal(t, "tenant_id", tc.tenantColumn)
		assert.True(t, tc.required)
	})

	t.Run("custom column is kept", func(t *testing.T) {
		tc := NewTenantCallback("shop_id", false)
		assert.Equal(t, "shop_id", tc.tenantColumn)
		assert.False(t, tc.required)
	})
}

func TestAutoTenantFilter_Query(t *testing.T) {
	t.Run("query without an explicit filter sees only its shop", func(t *testing.T) {
		db := newTenantTestDB(t)
		EnableAutoTenantFilter(db, false)

		var rows []invoiceRow
		err := db.WithContext(tenantContext(shopJaipur.String())).Find(&rows).Error
		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.Equal(t, shopJaipur, row.TenantID)
		}
	})

	t.Run("explicit tenant condition is left alone", func(t *testing.T) {
		db := newTenantTestDB(t)
		EnableAutoTenantFilter(db, false)

		// Jaipur's context must not override a deliberate Mumbai filter
		var rows []invoiceRow
		err := db.WithContext(tenantContext(shopJaipur.String())).
			Where("tenant_id = ?", shopMumbai).
			Find(&rows).Error
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "INV-MUM-0001", rows[0].InvoiceNumber)
	})

	t.Run("unscoped query spans shops", func(t *testing.T) {
		db := newTenantTestDB(t)
		EnableAutoTenantFilter(db, false)

		var rows []invoiceRow
		err := db.WithContext(tenantContext(shopJaipur.String())).Unscoped().Find(&rows).Error
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})
}

func TestAutoTenantFilter_UpdateAndDelete(t *testing.T) {
	db := newTenantTestDB(t)
	EnableAutoTenantFilter(db, false)
	ctx := tenantContext(shopJaipur.String())

	res := db.WithContext(ctx).Model(&invoiceRow{}).
		Where("invoice_number LIKE ?", "INV-%").
		Update("invoice_number", "INV-AMENDED")
	require.NoError(t, res.Error)
	assert.Equal(t, int64(2), res.RowsAffected)

	res = db.WithContext(ctx).Where("invoice_number = ?", "INV-AMENDED").Delete(&invoiceRow{})
	require.NoError(t, res.Error)
	assert.Equal(t, int64(2), res.RowsAffected)

	// Mumbai's invoice survived both statements
	var remaining []invoiceRow
	require.NoError(t, db.Unscoped().Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, shopMumbai, remaining[0].TenantID)
}

func TestAutoTenantFilter_RequiredEnforcement(t *testing.T) {
	t.Run("required without tenant errors", func(t *testing.T) {
		db := newTenantTestDB(t)
		EnableAutoTenantFilter(db, true)

		var rows []invoiceRow
		err := db.WithContext(context.Background()).Find(&rows).Error
		assert.ErrorIs(t, err, ErrTenantIDRequired)
	})

	t.Run("not required without tenant passes through", func(t *testing.T) {
		db := newTenantTestDB(t)
		EnableAutoTenantFilter(db, false)

		var rows []invoiceRow
		err := db.WithContext(context.Background()).Find(&rows).Error
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("malformed tenant errors regardless", func(t *testing.T) {
		db := newTenantTestDB(t)
		EnableAutoTenantFilter(db, false)

		var rows []invoiceRow
		err := db.WithContext(tenantContext("shop-jaipur-01")).Find(&rows).Error
		assert.ErrorIs(t, err, ErrInvalidTenantID)
	})
}

func TestDisableAutoTenantFilter(t *testing.T) {
	db := newTenantTestDB(t)
	EnableAutoTenantFilter(db, true)
	DisableAutoTenantFilter(db)

	// With the guard removed a tenant-less query is plain SQL again
	var rows []invoiceRow
	err := db.WithContext(context.Background()).Find(&rows).Error
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestMentionsTenant(t *testing.T) {
	tc := NewTenantCallback("tenant_id", false)
	tenantEq := clause.Eq{Column: clause.Column{Name: "tenant_id"}, Value: shopJaipur.String()}
	otherEq := clause.Eq{Column: clause.Column{Name: "invoice_number"}, Value: "INV-JPR-0001"}

	cases := []struct {
		name string
		expr clause.Expression
		want bool
	}{
		{"eq on tenant column", tenantEq, true},
		{"eq on another column", otherEq, false},
		{"in on tenant column", clause.IN{Column: clause.Column{Name: "tenant_id"}}, true},
		{"nested and", clause.AndConditions{Exprs: []clause.Expression{otherEq, tenantEq}}, true},
		{"nested or", clause.OrConditions{Exprs: []clause.Expression{otherEq, tenantEq}}, true},
		{"nested without tenant", clause.AndConditions{Exprs: []clause.Expression{otherEq}}, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tc.mentionsTenant(tt.expr))
		})
	}
}
