package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document types tracked in the document_sequences table
const (
	docTypeInvoice       = "invoice"
	docTypePurchaseOrder = "purchase_order"
)

// nextDocumentSequence bumps and returns the per-tenant, per-year counter
// for a document type. The upsert is a single atomic statement, so
// concurrent callers each get a distinct, gapless number.
func nextDocumentSequence(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, docType string, year int) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (tenant_id, doc_type, year, last_value)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (tenant_id, doc_type, year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`,
		tenantID, docType, year).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
