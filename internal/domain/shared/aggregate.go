package shared

import "github.com/google/uuid"

// BaseAggregateRoot adds an optimistic-lock version on top of the
// entity identity. Repositories compare-and-bump the version on save
// so two counter terminals editing the same record cannot silently
// overwrite each other.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the lock version. Mutating domain methods
// call this once per logical change.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// TenantAggregateRoot pins an aggregate to the shop that owns it.
// CreatedBy is optional audit data; imports and migrations leave it
// nil.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}
