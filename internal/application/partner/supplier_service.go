package partner

import (
	"context"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	if existing, err := s.supplierRepo.FindByCode(ctx, tenantID, req.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier with code "+req.Code+" already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name, partner.SupplierType(req.Type), req.GSTIN)
	if err != nil {
		return nil, err
	}

	if existing, err := s.supplierRepo.FindByGSTIN(ctx, tenantID, supplier.GSTIN); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier with GSTIN "+supplier.GSTIN.String()+" already exists")
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := supplier.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" {
		if err := supplier.SetAddress(req.Address, req.City); err != nil {
			return nil, err
		}
	}
	if req.BankName != "" || req.BankAccount != "" {
		if err := supplier.SetBankInfo(req.BankName, req.BankAccount); err != nil {
			return nil, err
		}
	}
	if req.CreditDays > 0 {
		if err := supplier.SetCreditDays(req.CreditDays); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("created supplier",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", supplier.Code),
		zap.String("gstin", supplier.GSTIN.String()))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByGSTIN retrieves a supplier by their GSTIN
func (s *SupplierService) GetByGSTIN(ctx context.Context, tenantID uuid.UUID, rawGSTIN string) (*SupplierResponse, error) {
	gstin, err := partner.ParseGSTIN(rawGSTIN)
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByGSTIN(ctx, tenantID, gstin)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]SupplierResponse, int64, error) {
	suppliers, total, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SupplierResponse, 0, len(suppliers))
	for idx := range suppliers {
		responses = append(responses, ToSupplierResponse(&suppliers[idx]))
	}
	return responses, total, nil
}

// Update updates a supplier's editable fields
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := supplier.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := supplier.ContactName
		phone := supplier.Phone
		email := supplier.Email
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := supplier.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.City != nil {
		address := supplier.Address
		city := supplier.City
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if err := supplier.SetAddress(address, city); err != nil {
			return nil, err
		}
	}
	if req.BankName != nil || req.BankAccount != nil {
		bankName := supplier.BankName
		bankAccount := supplier.BankAccount
		if req.BankName != nil {
			bankName = *req.BankName
		}
		if req.BankAccount != nil {
			bankAccount = *req.BankAccount
		}
		if err := supplier.SetBankInfo(bankName, bankAccount); err != nil {
			return nil, err
		}
	}
	if req.CreditDays != nil {
		if err := supplier.SetCreditDays(*req.CreditDays); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Block blocks a supplier
func (s *SupplierService) Block(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}
	if err := supplier.Block(); err != nil {
		return err
	}
	s.logger.Warn("blocked supplier",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", supplier.Code))
	return s.supplierRepo.Save(ctx, supplier)
}

// Activate activates a supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}
	if err := supplier.Activate(); err != nil {
		return err
	}
	return s.supplierRepo.Save(ctx, supplier)
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, tenantID, supplierID)
}
