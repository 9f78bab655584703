package models

import (
	"time"

	"github.com/jewelerp/backend/internal/domain/billing"
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber   string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	InvoiceDate     time.Time              `gorm:"not null;index"`
	CustomerID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName    string                 `gorm:"type:varchar(200);not null"`
	CustomerGSTIN   string                 `gorm:"type:varchar(15);index"`
	SellerStateCode string                 `gorm:"type:varchar(2);not null"`
	PlaceOfSupply   string                 `gorm:"type:varchar(2);not null"`
	SupplyType      billing.SupplyType     `gorm:"type:varchar(20);not null"`
	Items           []InvoiceItemModel     `gorm:"foreignKey:InvoiceID;references:ID"`
	TaxableTotal    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	CGSTTotal       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	SGSTTotal       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	IGSTTotal       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TotalGST        decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod   billing.PaymentMethod  `gorm:"type:varchar(20)"`
	Status          billing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes           string                 `gorm:"type:text"`
	FinalizedAt     *time.Time             `gorm:"index"`
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber:   m.InvoiceNumber,
		InvoiceDate:     m.InvoiceDate,
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		CustomerGSTIN:   partner.GSTIN(m.CustomerGSTIN),
		SellerStateCode: m.SellerStateCode,
		PlaceOfSupply:   m.PlaceOfSupply,
		SupplyType:      m.SupplyType,
		TaxableTotal:    m.TaxableTotal,
		CGSTTotal:       m.CGSTTotal,
		SGSTTotal:       m.SGSTTotal,
		IGSTTotal:       m.IGSTTotal,
		TotalGST:        m.TotalGST,
		GrandTotal:      m.GrandTotal,
		PaymentMethod:   m.PaymentMethod,
		Status:          m.Status,
		Notes:           m.Notes,
		FinalizedAt:     m.FinalizedAt,
		PaidAt:          m.PaidAt,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
		Items:           make([]billing.InvoiceItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	for i, item := range m.Items {
		inv.Items[i] = *item.ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.InvoiceDate = inv.InvoiceDate
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.CustomerGSTIN = inv.CustomerGSTIN.String()
	m.SellerStateCode = inv.SellerStateCode
	m.PlaceOfSupply = inv.PlaceOfSupply
	m.SupplyType = inv.SupplyType
	m.TaxableTotal = inv.TaxableTotal
	m.CGSTTotal = inv.CGSTTotal
	m.SGSTTotal = inv.SGSTTotal
	m.IGSTTotal = inv.IGSTTotal
	m.TotalGST = inv.TotalGST
	m.GrandTotal = inv.GrandTotal
	m.PaymentMethod = inv.PaymentMethod
	m.Status = inv.Status
	m.Notes = inv.Notes
	m.FinalizedAt = inv.FinalizedAt
	m.PaidAt = inv.PaidAt
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i] = *InvoiceItemModelFromDomain(&item)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for the InvoiceItem entity.
type InvoiceItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	HSNCode          string          `gorm:"type:varchar(8);not null"`
	Karat            string          `gorm:"type:varchar(4)"`
	GrossWeightGrams decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	GSTRate          decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxableValue     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CGSTAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SGSTAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IGSTAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem entity.
func (m *InvoiceItemModel) ToDomain() *billing.InvoiceItem {
	return &billing.InvoiceItem{
		ID:               m.ID,
		InvoiceID:        m.InvoiceID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		HSNCode:          m.HSNCode,
		Karat:            m.Karat,
		GrossWeightGrams: m.GrossWeightGrams,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		LineTotal:        m.LineTotal,
		GSTRate:          m.GSTRate,
		TaxableValue:     m.TaxableValue,
		CGSTAmount:       m.CGSTAmount,
		SGSTAmount:       m.SGSTAmount,
		IGSTAmount:       m.IGSTAmount,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem entity.
func (m *InvoiceItemModel) FromDomain(i *billing.InvoiceItem) {
	m.ID = i.ID
	m.InvoiceID = i.InvoiceID
	m.ProductID = i.ProductID
	m.ProductName = i.ProductName
	m.HSNCode = i.HSNCode
	m.Karat = i.Karat
	m.GrossWeightGrams = i.GrossWeightGrams
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.LineTotal = i.LineTotal
	m.GSTRate = i.GSTRate
	m.TaxableValue = i.TaxableValue
	m.CGSTAmount = i.CGSTAmount
	m.SGSTAmount = i.SGSTAmount
	m.IGSTAmount = i.IGSTAmount
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// InvoiceItemModelFromDomain creates a new persistence model from a domain InvoiceItem entity.
func InvoiceItemModelFromDomain(i *billing.InvoiceItem) *InvoiceItemModel {
	m := &InvoiceItemModel{}
	m.FromDomain(i)
	return m
}
