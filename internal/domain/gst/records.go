package gst

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GSTR2ARecord is one supplier invoice pulled from the GSTR-2A
// dynamic statement. Records are keyed by supplier GSTIN and invoice
// number within a filing period; re-imports replace the period's rows.
type GSTR2ARecord struct {
	shared.TenantAggregateRoot
	Period        string          `gorm:"type:varchar(6);not null;index:idx_gstr2a_tenant_period,priority:2"`
	SupplierGSTIN partner.GSTIN   `gorm:"type:varchar(15);not null;index"`
	SupplierName  string          `gorm:"type:varchar(200)"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	InvoiceDate   *time.Time      `gorm:"type:date"`
	InvoiceValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxableValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (GSTR2ARecord) TableName() string {
	return "gstr2a_records"
}

// GSTR2BRecord is one supplier invoice from the GSTR-2B static
// statement. Unlike 2A, 2B carries the ITC availability flag the
// portal computed for the period.
type GSTR2BRecord struct {
	shared.TenantAggregateRoot
	Period        string          `gorm:"type:varchar(6);not null;index:idx_gstr2b_tenant_period,priority:2"`
	SupplierGSTIN partner.GSTIN   `gorm:"type:varchar(15);not null;index"`
	SupplierName  string          `gorm:"type:varchar(200)"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	InvoiceDate   *time.Time      `gorm:"type:date"`
	InvoiceValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxableValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ITCAvailable  bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (GSTR2BRecord) TableName() string {
	return "gstr2b_records"
}

// PortalInvoice is the source-independent view of an imported record
// that the reconciliation matcher works on. ITCAvailable is nil for
// 2A records, which carry no eligibility verdict.
type PortalInvoice struct {
	SupplierGSTIN partner.GSTIN
	SupplierName  string
	InvoiceNumber string
	InvoiceDate   *time.Time
	InvoiceValue  decimal.Decimal
	TaxableValue  decimal.Decimal
	TotalTax      decimal.Decimal
	ITCAvailable  *bool
}

// ITCEligible reports whether the portal left the credit open. Records
// without a verdict count as eligible.
func (p *PortalInvoice) ITCEligible() bool {
	return p.ITCAvailable == nil || *p.ITCAvailable
}

// AsPortalInvoice converts the 2A record for matching
func (r *GSTR2ARecord) AsPortalInvoice() PortalInvoice {
	return PortalInvoice{
		SupplierGSTIN: r.SupplierGSTIN,
		SupplierName:  r.SupplierName,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		InvoiceValue:  r.InvoiceValue,
		TaxableValue:  r.TaxableValue,
		TotalTax:      r.CGSTAmount.Add(r.SGSTAmount).Add(r.IGSTAmount),
	}
}

// AsPortalInvoice converts the 2B record for matching
func (r *GSTR2BRecord) AsPortalInvoice() PortalInvoice {
	available := r.ITCAvailable
	return PortalInvoice{
		SupplierGSTIN: r.SupplierGSTIN,
		SupplierName:  r.SupplierName,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		InvoiceValue:  r.InvoiceValue,
		TaxableValue:  r.TaxableValue,
		TotalTax:      r.CGSTAmount.Add(r.SGSTAmount).Add(r.IGSTAmount),
		ITCAvailable:  &available,
	}
}

func newRecordBase(tenantID uuid.UUID) shared.TenantAggregateRoot {
	return shared.NewTenantAggregateRoot(tenantID)
}
