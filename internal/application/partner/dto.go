package partner

import (
	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Code      string `json:"code" binding:"required,min=1,max=50"`
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Type      string `json:"type" binding:"omitempty,oneof=individual business"`
	StateCode string `json:"state_code" binding:"required,len=2"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	PinCode   string `json:"pin_code"`
	GSTIN     string `json:"gstin"`
	PAN       string `json:"pan"`
	Notes     string `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	StateCode *string `json:"state_code"`
	PinCode   *string `json:"pin_code"`
	GSTIN     *string `json:"gstin"`
	Notes     *string `json:"notes"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	StateCode  string    `json:"state_code"`
	StateName  string    `json:"state_name"`
	PinCode    string    `json:"pin_code,omitempty"`
	GSTIN      string    `json:"gstin,omitempty"`
	PAN        string    `json:"pan,omitempty"`
	Registered bool      `json:"registered"`
	Notes      string    `json:"notes,omitempty"`
}

// ToCustomerResponse converts a domain customer to its response DTO
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         customer.ID,
		Code:       customer.Code,
		Name:       customer.Name,
		Type:       string(customer.Type),
		Status:     string(customer.Status),
		Phone:      customer.Phone,
		Email:      customer.Email,
		Address:    customer.Address,
		City:       customer.City,
		StateCode:  customer.StateCode,
		StateName:  partner.StateNameFor(customer.StateCode),
		PinCode:    customer.PinCode,
		GSTIN:      customer.GSTIN.String(),
		PAN:        customer.PAN,
		Registered: customer.IsRegistered(),
		Notes:      customer.Notes,
	}
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Type        string `json:"type" binding:"required,oneof=bullion_dealer manufacturer karigar service"`
	GSTIN       string `json:"gstin" binding:"required,len=15"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	BankName    string `json:"bank_name"`
	BankAccount string `json:"bank_account"`
	CreditDays  int    `json:"credit_days"`
	Notes       string `json:"notes"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	BankName    *string `json:"bank_name"`
	BankAccount *string `json:"bank_account"`
	CreditDays  *int    `json:"credit_days"`
	Notes       *string `json:"notes"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	ContactName string          `json:"contact_name,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	City        string          `json:"city,omitempty"`
	StateCode   string          `json:"state_code"`
	StateName   string          `json:"state_name"`
	GSTIN       string          `json:"gstin"`
	BankName    string          `json:"bank_name,omitempty"`
	BankAccount string          `json:"bank_account,omitempty"`
	CreditDays  int             `json:"credit_days"`
	Balance     decimal.Decimal `json:"balance"`
	Notes       string          `json:"notes,omitempty"`
}

// ToSupplierResponse converts a domain supplier to its response DTO
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          supplier.ID,
		Code:        supplier.Code,
		Name:        supplier.Name,
		Type:        string(supplier.Type),
		Status:      string(supplier.Status),
		ContactName: supplier.ContactName,
		Phone:       supplier.Phone,
		Email:       supplier.Email,
		Address:     supplier.Address,
		City:        supplier.City,
		StateCode:   supplier.StateCode,
		StateName:   partner.StateNameFor(supplier.StateCode),
		GSTIN:       supplier.GSTIN.String(),
		BankName:    supplier.BankName,
		BankAccount: supplier.BankAccount,
		CreditDays:  supplier.CreditDays,
		Balance:     supplier.Balance,
		Notes:       supplier.Notes,
	}
}

// PartnerListFilter represents filter options for customer/supplier lists
type PartnerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive blocked"`
	Type     string `form:"type"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
