package models

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	TenantAggregateModel
	PONumber              string                         `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	SupplierID            uuid.UUID                      `gorm:"type:uuid;not null;index"`
	SupplierName          string                         `gorm:"type:varchar(200);not null"`
	SupplierGSTIN         string                         `gorm:"type:varchar(15);not null;index"`
	SupplierInvoiceNumber string                         `gorm:"type:varchar(50);index"`
	SupplierInvoiceDate   *time.Time                     `gorm:"type:date;index"`
	Items                 []PurchaseOrderItemModel       `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TaxableValue          decimal.Decimal                `gorm:"type:decimal(18,4);not null;default:0"`
	CGSTAmount            decimal.Decimal                `gorm:"type:decimal(18,4);not null;default:0"`
	SGSTAmount            decimal.Decimal                `gorm:"type:decimal(18,4);not null;default:0"`
	IGSTAmount            decimal.Decimal                `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount           decimal.Decimal                `gorm:"type:decimal(18,4);not null;default:0"`
	ITCEligible           bool                           `gorm:"not null;default:true"`
	Status                purchasing.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	OrderDate             time.Time                      `gorm:"not null;index"`
	ReceivedAt            *time.Time
	CancelledAt           *time.Time
	CancelReason          string `gorm:"type:varchar(500)"`
	Notes                 string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	order := &purchasing.PurchaseOrder{
		PONumber:              m.PONumber,
		SupplierID:            m.SupplierID,
		SupplierName:          m.SupplierName,
		SupplierGSTIN:         partner.GSTIN(m.SupplierGSTIN),
		SupplierInvoiceNumber: m.SupplierInvoiceNumber,
		SupplierInvoiceDate:   m.SupplierInvoiceDate,
		TaxableValue:          m.TaxableValue,
		CGSTAmount:            m.CGSTAmount,
		SGSTAmount:            m.SGSTAmount,
		IGSTAmount:            m.IGSTAmount,
		TotalAmount:           m.TotalAmount,
		ITCEligible:           m.ITCEligible,
		Status:                m.Status,
		OrderDate:             m.OrderDate,
		ReceivedAt:            m.ReceivedAt,
		CancelledAt:           m.CancelledAt,
		CancelReason:          m.CancelReason,
		Notes:                 m.Notes,
		Items:                 make([]purchasing.PurchaseOrderItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&order.TenantAggregateRoot)
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *purchasing.PurchaseOrder) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.PONumber = o.PONumber
	m.SupplierID = o.SupplierID
	m.SupplierName = o.SupplierName
	m.SupplierGSTIN = o.SupplierGSTIN.String()
	m.SupplierInvoiceNumber = o.SupplierInvoiceNumber
	m.SupplierInvoiceDate = o.SupplierInvoiceDate
	m.TaxableValue = o.TaxableValue
	m.CGSTAmount = o.CGSTAmount
	m.SGSTAmount = o.SGSTAmount
	m.IGSTAmount = o.IGSTAmount
	m.TotalAmount = o.TotalAmount
	m.ITCEligible = o.ITCEligible
	m.Status = o.Status
	m.OrderDate = o.OrderDate
	m.ReceivedAt = o.ReceivedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Notes = o.Notes
	m.Items = make([]PurchaseOrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *PurchaseOrderItemModelFromDomain(&item)
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(o *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderItemModel is the persistence model for the PurchaseOrderItem entity.
type PurchaseOrderItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description      string          `gorm:"type:varchar(500);not null"`
	HSNCode          string          `gorm:"type:varchar(8)"`
	Karat            string          `gorm:"type:varchar(4)"`
	GrossWeightGrams decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Quantity         int             `gorm:"not null"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem entity.
func (m *PurchaseOrderItemModel) ToDomain() *purchasing.PurchaseOrderItem {
	return &purchasing.PurchaseOrderItem{
		ID:               m.ID,
		PurchaseOrderID:  m.PurchaseOrderID,
		Description:      m.Description,
		HSNCode:          m.HSNCode,
		Karat:            m.Karat,
		GrossWeightGrams: m.GrossWeightGrams,
		Quantity:         m.Quantity,
		UnitCost:         m.UnitCost,
		LineTotal:        m.LineTotal,
		CreatedAt:        m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrderItem entity.
func (m *PurchaseOrderItemModel) FromDomain(i *purchasing.PurchaseOrderItem) {
	m.ID = i.ID
	m.PurchaseOrderID = i.PurchaseOrderID
	m.Description = i.Description
	m.HSNCode = i.HSNCode
	m.Karat = i.Karat
	m.GrossWeightGrams = i.GrossWeightGrams
	m.Quantity = i.Quantity
	m.UnitCost = i.UnitCost
	m.LineTotal = i.LineTotal
	m.CreatedAt = i.CreatedAt
}

// PurchaseOrderItemModelFromDomain creates a new persistence model from a domain PurchaseOrderItem entity.
func PurchaseOrderItemModelFromDomain(i *purchasing.PurchaseOrderItem) *PurchaseOrderItemModel {
	m := &PurchaseOrderItemModel{}
	m.FromDomain(i)
	return m
}
