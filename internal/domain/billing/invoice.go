package billing

import (
	"fmt"
	"time"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusFinalized InvoiceStatus = "FINALIZED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusFinalized, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusFinalized || target == InvoiceStatusCancelled
	case InvoiceStatusFinalized:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod is how the customer settled the invoice
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodBank PaymentMethod = "bank_transfer"
)

// FormatInvoiceNumber renders the sequential invoice number, e.g. INV-2024-00042
func FormatInvoiceNumber(year int, sequence int64) string {
	return fmt.Sprintf("INV-%d-%05d", year, sequence)
}

// InvoiceItem is a line on a sales invoice. Unit prices are GST-inclusive;
// the taxable value and tax amounts are backed out when the line is built.
type InvoiceItem struct {
	ID               uuid.UUID
	InvoiceID        uuid.UUID
	ProductID        uuid.UUID
	ProductName      string
	HSNCode          string
	Karat            string
	GrossWeightGrams decimal.Decimal
	Quantity         int
	UnitPrice        decimal.Decimal // GST-inclusive price per unit
	LineTotal        decimal.Decimal // Quantity * UnitPrice, GST-inclusive
	GSTRate          decimal.Decimal
	TaxableValue     decimal.Decimal
	CGSTAmount       decimal.Decimal
	SGSTAmount       decimal.Decimal
	IGSTAmount       decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewInvoiceItem builds a line with the tax split already applied for
// the given supply type.
func NewInvoiceItem(invoiceID, productID uuid.UUID, productName, hsnCode, karat string, quantity int, unitPrice, gstRate decimal.Decimal, supply SupplyType) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	breakdown, err := SplitInclusive(lineTotal, gstRate, supply)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &InvoiceItem{
		ID:           uuid.New(),
		InvoiceID:    invoiceID,
		ProductID:    productID,
		ProductName:  productName,
		HSNCode:      hsnCode,
		Karat:        karat,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		LineTotal:    lineTotal,
		GSTRate:      gstRate,
		TaxableValue: breakdown.TaxableValue,
		CGSTAmount:   breakdown.CGST,
		SGSTAmount:   breakdown.SGST,
		IGSTAmount:   breakdown.IGST,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Breakdown returns the line's tax decomposition
func (i *InvoiceItem) Breakdown() GSTBreakdown {
	return GSTBreakdown{
		TaxableValue: i.TaxableValue,
		CGST:         i.CGSTAmount,
		SGST:         i.SGSTAmount,
		IGST:         i.IGSTAmount,
		TotalGST:     i.CGSTAmount.Add(i.SGSTAmount).Add(i.IGSTAmount),
	}
}

// SetWeight records the gold weight sold on this line
func (i *InvoiceItem) SetWeight(grossGrams decimal.Decimal) error {
	if grossGrams.IsNegative() {
		return shared.NewValidationError("Weight cannot be negative")
	}
	i.GrossWeightGrams = grossGrams
	i.UpdatedAt = time.Now()
	return nil
}

// Invoice is the sales invoice aggregate root. The supply type is fixed
// at creation from the seller state and place of supply; every line's
// tax split follows it. Once finalized the invoice is immutable.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber   string
	InvoiceDate     time.Time
	CustomerID      uuid.UUID
	CustomerName    string
	CustomerGSTIN   partner.GSTIN
	SellerStateCode string
	PlaceOfSupply   string // GST state code of the buyer
	SupplyType      SupplyType
	Items           []InvoiceItem
	TaxableTotal    decimal.Decimal
	CGSTTotal       decimal.Decimal
	SGSTTotal       decimal.Decimal
	IGSTTotal       decimal.Decimal
	TotalGST        decimal.Decimal
	GrandTotal      decimal.Decimal // GST-inclusive payable amount
	PaymentMethod   PaymentMethod
	Status          InvoiceStatus
	Notes           string
	FinalizedAt     *time.Time
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewInvoice creates a draft invoice. The place of supply defaults to
// the customer's GSTIN state when a GSTIN is present.
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, invoiceDate time.Time, customerID uuid.UUID, customerName string, customerGSTIN partner.GSTIN, sellerStateCode, placeOfSupply string) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewValidationError("Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if !partner.IsKnownStateCode(sellerStateCode) {
		return nil, shared.NewValidationError("Unknown seller state code: " + sellerStateCode)
	}
	if !customerGSTIN.IsZero() {
		placeOfSupply = customerGSTIN.StateCode()
	}
	if !partner.IsKnownStateCode(placeOfSupply) {
		return nil, shared.NewValidationError("Unknown place of supply: " + placeOfSupply)
	}

	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		InvoiceDate:         invoiceDate,
		CustomerID:          customerID,
		CustomerName:        customerName,
		CustomerGSTIN:       customerGSTIN,
		SellerStateCode:     sellerStateCode,
		PlaceOfSupply:       placeOfSupply,
		SupplyType:          DetermineSupplyType(sellerStateCode, placeOfSupply),
		Items:               make([]InvoiceItem, 0),
		TaxableTotal:        decimal.Zero,
		CGSTTotal:           decimal.Zero,
		SGSTTotal:           decimal.Zero,
		IGSTTotal:           decimal.Zero,
		TotalGST:            decimal.Zero,
		GrandTotal:          decimal.Zero,
		Status:              InvoiceStatusDraft,
	}, nil
}

// AddItem adds a line and recalculates the invoice totals
func (inv *Invoice) AddItem(productID uuid.UUID, productName, hsnCode, karat string, quantity int, unitPrice, gstRate decimal.Decimal) error {
	if err := inv.ensureMutable(); err != nil {
		return err
	}
	item, err := NewInvoiceItem(inv.ID, productID, productName, hsnCode, karat, quantity, unitPrice, gstRate, inv.SupplyType)
	if err != nil {
		return err
	}
	inv.Items = append(inv.Items, *item)
	inv.recalculate()
	return nil
}

// RemoveItem removes a line by item ID and recalculates totals
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if err := inv.ensureMutable(); err != nil {
		return err
	}
	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculate()
			return nil
		}
	}
	return shared.NewNotFoundError("Invoice item not found")
}

// SetPaymentMethod records how the invoice will be settled
func (inv *Invoice) SetPaymentMethod(method PaymentMethod) error {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodBank:
		inv.PaymentMethod = method
		inv.touch()
		return nil
	default:
		return shared.NewValidationError("Invalid payment method")
	}
}

// SetNotes sets free-form notes on a draft invoice
func (inv *Invoice) SetNotes(notes string) error {
	if err := inv.ensureMutable(); err != nil {
		return err
	}
	inv.Notes = notes
	inv.touch()
	return nil
}

// Finalize locks the invoice. A finalized invoice can no longer change
// its lines or amounts.
func (inv *Invoice) Finalize() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusFinalized) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot finalize invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewValidationError("Cannot finalize an invoice with no items")
	}
	now := time.Now()
	inv.Status = InvoiceStatusFinalized
	inv.FinalizedAt = &now
	inv.touch()
	return nil
}

// MarkPaid marks a finalized invoice as paid
func (inv *Invoice) MarkPaid() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot mark invoice in %s status as paid", inv.Status))
	}
	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.touch()
	return nil
}

// Cancel cancels the invoice with a reason
func (inv *Invoice) Cancel(reason string) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason cannot be empty")
	}
	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.touch()
	return nil
}

// IsB2B reports whether the invoice goes on the B2B section of GSTR-1
func (inv *Invoice) IsB2B() bool {
	return !inv.CustomerGSTIN.IsZero()
}

// IsIntraState reports whether the invoice carries CGST+SGST
func (inv *Invoice) IsIntraState() bool {
	return inv.SupplyType == SupplyIntraState
}

// Breakdown returns the invoice-level tax decomposition
func (inv *Invoice) Breakdown() GSTBreakdown {
	return GSTBreakdown{
		TaxableValue: inv.TaxableTotal,
		CGST:         inv.CGSTTotal,
		SGST:         inv.SGSTTotal,
		IGST:         inv.IGSTTotal,
		TotalGST:     inv.TotalGST,
	}
}

func (inv *Invoice) ensureMutable() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVOICE_IMMUTABLE", fmt.Sprintf("Invoice in %s status cannot be modified", inv.Status))
	}
	return nil
}

func (inv *Invoice) recalculate() {
	total := GSTBreakdown{}
	grand := decimal.Zero
	for idx := range inv.Items {
		total = total.Add(inv.Items[idx].Breakdown())
		grand = grand.Add(inv.Items[idx].LineTotal)
	}
	inv.TaxableTotal = total.TaxableValue
	inv.CGSTTotal = total.CGST
	inv.SGSTTotal = total.SGST
	inv.IGSTTotal = total.IGST
	inv.TotalGST = total.TotalGST
	inv.GrandTotal = grand
	inv.touch()
}

func (inv *Invoice) touch() {
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}
