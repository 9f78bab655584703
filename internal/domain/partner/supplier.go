package partner

import (
	"strings"
	"time"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
	SupplierStatusBlocked  SupplierStatus = "blocked" // Blocked due to quality or payment issues
)

// SupplierType represents the type of supplier
type SupplierType string

const (
	SupplierTypeBullionDealer SupplierType = "bullion_dealer" // Raw gold and bars
	SupplierTypeManufacturer  SupplierType = "manufacturer"   // Finished jewellery
	SupplierTypeKarigar       SupplierType = "karigar"        // Job-work artisan
	SupplierTypeService       SupplierType = "service"        // Hallmarking, certification
)

// Supplier represents a vendor in the partner context. Suppliers must
// carry a GSTIN so purchases can claim input tax credit and reconcile
// against GSTR-2A/2B data pulled from the portal.
type Supplier struct {
	shared.TenantAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_tenant_code,priority:2"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Type        SupplierType    `gorm:"type:varchar(20);not null;default:'manufacturer'"`
	Status      SupplierStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string          `gorm:"type:varchar(100)"`
	Phone       string          `gorm:"type:varchar(50);index"`
	Email       string          `gorm:"type:varchar(200);index"`
	Address     string          `gorm:"type:text"`
	City        string          `gorm:"type:varchar(100)"`
	StateCode   string          `gorm:"type:varchar(2);not null"`
	GSTIN       GSTIN           `gorm:"type:varchar(15);not null;index"`
	BankName    string          `gorm:"type:varchar(200)"`
	BankAccount string          `gorm:"type:varchar(100)"`
	CreditDays  int             `gorm:"not null;default:0"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Accounts payable
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier. The GSTIN is mandatory and its
// state code becomes the supplier's state.
func NewSupplier(tenantID uuid.UUID, code, name string, supplierType SupplierType, rawGSTIN string) (*Supplier, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}
	if err := validateSupplierType(supplierType); err != nil {
		return nil, err
	}
	gstin, err := ParseGSTIN(rawGSTIN)
	if err != nil {
		return nil, err
	}

	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Type:                supplierType,
		Status:              SupplierStatusActive,
		GSTIN:               gstin,
		StateCode:           gstin.StateCode(),
		Balance:             decimal.Zero,
	}, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}
	s.Name = name
	s.touch()
	return nil
}

// SetContact sets the supplier's contact information
func (s *Supplier) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewValidationError("Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.touch()
	return nil
}

// SetAddress sets the supplier's address information
func (s *Supplier) SetAddress(address, city string) error {
	if address != "" && len(address) > 500 {
		return shared.NewValidationError("Address cannot exceed 500 characters")
	}
	s.Address = address
	s.City = city
	s.touch()
	return nil
}

// SetBankInfo sets the supplier's bank information
func (s *Supplier) SetBankInfo(bankName, bankAccount string) error {
	if bankName != "" && len(bankName) > 200 {
		return shared.NewValidationError("Bank name cannot exceed 200 characters")
	}
	if bankAccount != "" && len(bankAccount) > 100 {
		return shared.NewValidationError("Bank account cannot exceed 100 characters")
	}
	s.BankName = bankName
	s.BankAccount = bankAccount
	s.touch()
	return nil
}

// SetCreditDays sets the supplier's payment terms
func (s *Supplier) SetCreditDays(days int) error {
	if days < 0 || days > 365 {
		return shared.NewValidationError("Credit days must be between 0 and 365")
	}
	s.CreditDays = days
	s.touch()
	return nil
}

// AddBalance adds to the accounts payable balance on goods receipt
func (s *Supplier) AddBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Amount must be positive")
	}
	s.Balance = s.Balance.Add(amount)
	s.touch()
	return nil
}

// DeductBalance deducts from the accounts payable balance on payment
func (s *Supplier) DeductBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Amount must be positive")
	}
	if s.Balance.LessThan(amount) {
		return shared.NewValidationError("Amount exceeds current balance")
	}
	s.Balance = s.Balance.Sub(amount)
	s.touch()
	return nil
}

// SetNotes sets the supplier's notes
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.touch()
}

// Block blocks the supplier
func (s *Supplier) Block() error {
	if s.Status == SupplierStatusBlocked {
		return shared.NewValidationError("Supplier is already blocked")
	}
	s.Status = SupplierStatusBlocked
	s.touch()
	return nil
}

// Activate activates the supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewValidationError("Supplier is already active")
	}
	s.Status = SupplierStatusActive
	s.touch()
	return nil
}

// Deactivate deactivates the supplier
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewValidationError("Supplier is already inactive")
	}
	s.Status = SupplierStatusInactive
	s.touch()
	return nil
}

// IsActive returns true if the supplier is active
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// IsBlocked returns true if the supplier is blocked
func (s *Supplier) IsBlocked() bool {
	return s.Status == SupplierStatusBlocked
}

func (s *Supplier) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func validateSupplierType(t SupplierType) error {
	switch t {
	case SupplierTypeBullionDealer, SupplierTypeManufacturer, SupplierTypeKarigar, SupplierTypeService:
		return nil
	default:
		return shared.NewValidationError("Invalid supplier type")
	}
}
