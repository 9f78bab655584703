package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual" // Walk-in retail customer
	CustomerTypeBusiness   CustomerType = "business"   // GST-registered business
)

// Customer represents a buyer in the partner context.
// A customer with a GSTIN is treated as B2B on outward returns; the
// GSTIN state code decides whether a sale is intra-state or inter-state.
type Customer struct {
	shared.TenantAggregateRoot
	Code      string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_tenant_code,priority:2"`
	Name      string         `gorm:"type:varchar(200);not null"`
	Type      CustomerType   `gorm:"type:varchar(20);not null;default:'individual'"`
	Status    CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Phone     string         `gorm:"type:varchar(50);index"`
	Email     string         `gorm:"type:varchar(200);index"`
	Address   string         `gorm:"type:text"`
	City      string         `gorm:"type:varchar(100)"`
	StateCode string         `gorm:"type:varchar(2);not null"` // GST state code, place of supply
	PinCode   string         `gorm:"type:varchar(10)"`
	GSTIN     GSTIN          `gorm:"type:varchar(15);index"` // empty for unregistered customers
	PAN       string         `gorm:"type:varchar(10)"`
	Notes     string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(tenantID uuid.UUID, code, name string, customerType CustomerType, stateCode string) (*Customer, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}
	if err := validateCustomerType(customerType); err != nil {
		return nil, err
	}
	if !IsKnownStateCode(stateCode) {
		return nil, shared.NewValidationError("Unknown GST state code: " + stateCode)
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Type:                customerType,
		Status:              CustomerStatusActive,
		StateCode:           stateCode,
	}, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}
	c.Name = name
	c.touch()
	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(phone, email string) error {
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
	c.Phone = phone
	c.Email = email
	c.touch()
	return nil
}

// SetAddress sets the customer's address. The state code moves the
// place of supply, so it must stay a known GST state code.
func (c *Customer) SetAddress(address, city, stateCode, pinCode string) error {
	if !IsKnownStateCode(stateCode) {
		return shared.NewValidationError("Unknown GST state code: " + stateCode)
	}
	if !c.GSTIN.IsZero() && c.GSTIN.StateCode() != stateCode {
		return shared.NewValidationError("State code must match the GSTIN state code")
	}
	c.Address = address
	c.City = city
	c.StateCode = stateCode
	c.PinCode = pinCode
	c.touch()
	return nil
}

// SetGSTIN registers the customer's GSTIN and aligns the place of
// supply with the GSTIN state code. Passing an empty string clears it.
func (c *Customer) SetGSTIN(raw string) error {
	if strings.TrimSpace(raw) == "" {
		c.GSTIN = ""
		c.touch()
		return nil
	}
	gstin, err := ParseGSTIN(raw)
	if err != nil {
		return err
	}
	c.GSTIN = gstin
	c.StateCode = gstin.StateCode()
	c.Type = CustomerTypeBusiness
	c.touch()
	return nil
}

// SetNotes sets the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewValidationError("Customer is already inactive")
	}
	c.Status = CustomerStatusInactive
	c.touch()
	return nil
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewValidationError("Customer is already active")
	}
	c.Status = CustomerStatusActive
	c.touch()
	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// IsRegistered reports whether the customer holds a GSTIN.
// Registered customers go on the B2B section of GSTR-1.
func (c *Customer) IsRegistered() bool {
	return !c.GSTIN.IsZero()
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Validation functions shared by customer and supplier

func validatePartnerCode(code string) error {
	if code == "" {
		return shared.NewValidationError("Code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewValidationError("Code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewValidationError("Code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validatePartnerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerType(t CustomerType) error {
	switch t {
	case CustomerTypeIndividual, CustomerTypeBusiness:
		return nil
	default:
		return shared.NewValidationError("Customer type must be 'individual' or 'business'")
	}
}

var phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewValidationError("Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewValidationError("Invalid phone number format")
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}
