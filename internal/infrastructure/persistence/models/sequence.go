package models

import (
	"github.com/google/uuid"
)

// DocumentSequenceModel backs the gapless per-tenant, per-year document
// numbering for invoices and purchase orders. Rows are bumped with an
// atomic upsert so concurrent creation never hands out the same number.
type DocumentSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocType   string    `gorm:"type:varchar(20);primaryKey"`
	Year      int       `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
