package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// TenantAggregateModel provides the common columns of tenant-scoped aggregate roots
type TenantAggregateModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	Version   int        `gorm:"not null;default:1"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// FromDomainTenantAggregateRoot populates the columns from a domain aggregate root
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
	m.Version = t.Version
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
}

// ToTenantAggregateRoot rebuilds the domain aggregate root
func (m *TenantAggregateModel) ToTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
}

// All returns every model, in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&SpecialtyModel{},
		&ProductModel{},
		&ProductTaskModel{},
		&TaskStepModel{},
		&ProductQuestionModel{},
		&CompanyModel{},
		&CredentialModel{},
		&WalletTransactionModel{},
		&ProjectModel{},
		&ProjectTaskModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&QualificationModel{},
		&ChecklistItemModel{},
		&SubmissionModel{},
	}
}
