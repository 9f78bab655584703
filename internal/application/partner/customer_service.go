package partner

import (
	"context"
	"strings"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	// Same normalization as the constructor, so the duplicate check
	// sees the code the way it will be stored.
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if existing, err := s.customerRepo.FindByCode(ctx, tenantID, code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with code "+code+" already exists")
	}

	customerType := partner.CustomerType(req.Type)
	if req.Type == "" {
		customerType = partner.CustomerTypeIndividual
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name, customerType, req.StateCode)
	if err != nil {
		return nil, err
	}

	if req.GSTIN != "" {
		if err := customer.SetGSTIN(req.GSTIN); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.PinCode != "" {
		if err := customer.SetAddress(req.Address, req.City, customer.StateCode, req.PinCode); err != nil {
			return nil, err
		}
	}
	customer.PAN = req.PAN
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("created customer",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", customer.Code))
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByGSTIN retrieves a customer by their GSTIN
func (s *CustomerService) GetByGSTIN(ctx context.Context, tenantID uuid.UUID, rawGSTIN string) (*CustomerResponse, error) {
	gstin, err := partner.ParseGSTIN(rawGSTIN)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByGSTIN(ctx, tenantID, gstin)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CustomerResponse, 0, len(customers))
	for idx := range customers {
		responses = append(responses, ToCustomerResponse(&customers[idx]))
	}
	return responses, total, nil
}

// Update updates a customer's editable fields
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.GSTIN != nil {
		if err := customer.SetGSTIN(*req.GSTIN); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil {
		phone := customer.Phone
		email := customer.Email
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.City != nil || req.StateCode != nil || req.PinCode != nil {
		address := customer.Address
		city := customer.City
		stateCode := customer.StateCode
		pinCode := customer.PinCode
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.StateCode != nil {
			stateCode = *req.StateCode
		}
		if req.PinCode != nil {
			pinCode = *req.PinCode
		}
		if err := customer.SetAddress(address, city, stateCode, pinCode); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if err := customer.Deactivate(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, customer)
}

// Activate activates a customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if err := customer.Activate(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, customer)
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	return s.customerRepo.Delete(ctx, tenantID, customerID)
}

func toDomainFilter(filter PartnerListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	return domainFilter
}
