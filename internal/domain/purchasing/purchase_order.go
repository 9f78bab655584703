package purchasing

import (
	"fmt"
	"time"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusPartial, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartial:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// FormatPONumber renders the sequential purchase order number, e.g. PO-2024-00042
func FormatPONumber(year int, sequence int64) string {
	return fmt.Sprintf("PO-%d-%05d", year, sequence)
}

// PurchaseOrderItem is a line on a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID
	PurchaseOrderID  uuid.UUID
	Description      string
	HSNCode          string
	Karat            string
	GrossWeightGrams decimal.Decimal
	Quantity         int
	UnitCost         decimal.Decimal // cost before GST
	LineTotal        decimal.Decimal
	CreatedAt        time.Time
}

// NewPurchaseOrderItem creates a purchase order line
func NewPurchaseOrderItem(poID uuid.UUID, description, hsnCode, karat string, quantity int, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if description == "" {
		return nil, shared.NewValidationError("Item description cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}
	return &PurchaseOrderItem{
		ID:              uuid.New(),
		PurchaseOrderID: poID,
		Description:     description,
		HSNCode:         hsnCode,
		Karat:           karat,
		Quantity:        quantity,
		UnitCost:        unitCost,
		LineTotal:       unitCost.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:       time.Now(),
	}, nil
}

// PurchaseOrder is the inward-supply aggregate root. The supplier's own
// invoice number and GSTIN recorded here are the keys the GSTR-2A/2B
// reconciliation matches on, and the tax amounts are the input tax
// credit claimed for the period.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	PONumber              string
	SupplierID            uuid.UUID
	SupplierName          string
	SupplierGSTIN         partner.GSTIN
	SupplierInvoiceNumber string // the supplier's bill number, matched against portal data
	SupplierInvoiceDate   *time.Time
	Items                 []PurchaseOrderItem
	TaxableValue          decimal.Decimal
	CGSTAmount            decimal.Decimal
	SGSTAmount            decimal.Decimal
	IGSTAmount            decimal.Decimal
	TotalAmount           decimal.Decimal // taxable + taxes
	ITCEligible           bool
	Status                PurchaseOrderStatus
	OrderDate             time.Time
	ReceivedAt            *time.Time
	CancelledAt           *time.Time
	CancelReason          string
	Notes                 string
}

// NewPurchaseOrder creates a pending purchase order against a supplier
func NewPurchaseOrder(tenantID uuid.UUID, poNumber string, supplierID uuid.UUID, supplierName string, supplierGSTIN partner.GSTIN, orderDate time.Time) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewValidationError("PO number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}
	if supplierGSTIN.IsZero() {
		return nil, shared.NewValidationError("Supplier GSTIN is required to claim input tax credit")
	}

	return &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PONumber:            poNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		SupplierGSTIN:       supplierGSTIN,
		Items:               make([]PurchaseOrderItem, 0),
		TaxableValue:        decimal.Zero,
		CGSTAmount:          decimal.Zero,
		SGSTAmount:          decimal.Zero,
		IGSTAmount:          decimal.Zero,
		TotalAmount:         decimal.Zero,
		ITCEligible:         true,
		Status:              PurchaseOrderStatusPending,
		OrderDate:           orderDate,
	}, nil
}

// AddItem adds a line and recomputes the taxable value
func (po *PurchaseOrder) AddItem(description, hsnCode, karat string, quantity int, unitCost decimal.Decimal) error {
	if err := po.ensureOpen(); err != nil {
		return err
	}
	item, err := NewPurchaseOrderItem(po.ID, description, hsnCode, karat, quantity, unitCost)
	if err != nil {
		return err
	}
	po.Items = append(po.Items, *item)
	po.TaxableValue = po.TaxableValue.Add(item.LineTotal)
	po.TotalAmount = po.TaxableValue.Add(po.CGSTAmount).Add(po.SGSTAmount).Add(po.IGSTAmount)
	po.touch()
	return nil
}

// SetTaxAmounts records the GST charged by the supplier. Intra-state
// purchases carry CGST+SGST, inter-state carry IGST; mixing both on
// one bill is rejected.
func (po *PurchaseOrder) SetTaxAmounts(cgst, sgst, igst decimal.Decimal) error {
	if err := po.ensureOpen(); err != nil {
		return err
	}
	if cgst.IsNegative() || sgst.IsNegative() || igst.IsNegative() {
		return shared.NewValidationError("Tax amounts cannot be negative")
	}
	if igst.IsPositive() && (cgst.IsPositive() || sgst.IsPositive()) {
		return shared.NewValidationError("A purchase cannot carry both IGST and CGST/SGST")
	}
	if !cgst.Equal(sgst) {
		return shared.NewValidationError("CGST and SGST must be equal")
	}
	po.CGSTAmount = cgst
	po.SGSTAmount = sgst
	po.IGSTAmount = igst
	po.TotalAmount = po.TaxableValue.Add(cgst).Add(sgst).Add(igst)
	po.touch()
	return nil
}

// TotalGST returns the input tax credit this purchase carries
func (po *PurchaseOrder) TotalGST() decimal.Decimal {
	return po.CGSTAmount.Add(po.SGSTAmount).Add(po.IGSTAmount)
}

// SetSupplierInvoice records the supplier's bill reference
func (po *PurchaseOrder) SetSupplierInvoice(invoiceNumber string, invoiceDate time.Time) error {
	if invoiceNumber == "" {
		return shared.NewValidationError("Supplier invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return shared.NewValidationError("Supplier invoice number cannot exceed 50 characters")
	}
	po.SupplierInvoiceNumber = invoiceNumber
	po.SupplierInvoiceDate = &invoiceDate
	po.touch()
	return nil
}

// SetITCEligible flags whether the GST on this purchase can be claimed
func (po *PurchaseOrder) SetITCEligible(eligible bool) {
	po.ITCEligible = eligible
	po.touch()
}

// MarkPartiallyReceived records a partial goods receipt
func (po *PurchaseOrder) MarkPartiallyReceived() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusPartial) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot mark order in %s status as partially received", po.Status))
	}
	po.Status = PurchaseOrderStatusPartial
	po.touch()
	return nil
}

// MarkReceived records full goods receipt
func (po *PurchaseOrder) MarkReceived() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot mark order in %s status as received", po.Status))
	}
	now := time.Now()
	po.Status = PurchaseOrderStatusReceived
	po.ReceivedAt = &now
	po.touch()
	return nil
}

// Cancel cancels the purchase order with a reason
func (po *PurchaseOrder) Cancel(reason string) error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot cancel order in %s status", po.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason cannot be empty")
	}
	now := time.Now()
	po.Status = PurchaseOrderStatusCancelled
	po.CancelledAt = &now
	po.CancelReason = reason
	po.touch()
	return nil
}

// SetNotes sets free-form notes
func (po *PurchaseOrder) SetNotes(notes string) {
	po.Notes = notes
	po.touch()
}

func (po *PurchaseOrder) ensureOpen() error {
	if po.Status == PurchaseOrderStatusReceived || po.Status == PurchaseOrderStatusCancelled {
		return shared.NewDomainError("PURCHASE_ORDER_CLOSED", fmt.Sprintf("Purchase order in %s status cannot be modified", po.Status))
	}
	return nil
}

func (po *PurchaseOrder) touch() {
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
}
