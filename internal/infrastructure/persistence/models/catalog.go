package models

import (
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// SpecialtyModel is the persistence model for the Specialty domain entity.
type SpecialtyModel struct {
	TenantAggregateModel
	Code        string                  `gorm:"type:varchar(30);not null;index"`
	Name        string                  `gorm:"type:varchar(100);not null"`
	Description string                  `gorm:"type:text"`
	JuniorRate  decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	MidRate     decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	SeniorRate  decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Status      catalog.SpecialtyStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (SpecialtyModel) TableName() string {
	return "specialties"
}

// ToDomain converts the persistence model to a domain Specialty entity.
func (m *SpecialtyModel) ToDomain() *catalog.Specialty {
	return &catalog.Specialty{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		JuniorRate:          m.JuniorRate,
		MidRate:             m.MidRate,
		SeniorRate:          m.SeniorRate,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Specialty entity.
func (m *SpecialtyModel) FromDomain(s *catalog.Specialty) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.Description = s.Description
	m.JuniorRate = s.JuniorRate
	m.MidRate = s.MidRate
	m.SeniorRate = s.SeniorRate
	m.Status = s.Status
}

// SpecialtyModelFromDomain creates a new persistence model from a domain Specialty entity.
func SpecialtyModelFromDomain(s *catalog.Specialty) *SpecialtyModel {
	m := &SpecialtyModel{}
	m.FromDomain(s)
	return m
}

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	TenantAggregateModel
	Code         string                 `gorm:"type:varchar(50);not null;index"`
	Name         string                 `gorm:"type:varchar(200);not null"`
	Description  string                 `gorm:"type:text"`
	Category     string                 `gorm:"type:varchar(100);not null;index"`
	Area         string                 `gorm:"type:varchar(100);index"`
	Status       catalog.ProductStatus  `gorm:"type:varchar(20);not null;default:'draft'"`
	PricingMode  catalog.PricingMode    `gorm:"type:varchar(20);not null;default:'automatic'"`
	ManualPrice  decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Price        decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	DeliveryDays int                    `gorm:"not null;default:0"`
	Tags         []string               `gorm:"type:jsonb;serializer:json"`
	Tasks        []ProductTaskModel     `gorm:"foreignKey:ProductID"`
	Questions    []ProductQuestionModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model, including loaded children, to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		Category:            m.Category,
		Area:                m.Area,
		Status:              m.Status,
		PricingMode:         m.PricingMode,
		ManualPrice:         m.ManualPrice,
		Price:               m.Price,
		DeliveryDays:        m.DeliveryDays,
		Tags:                m.Tags,
		Tasks:               make([]catalog.Task, len(m.Tasks)),
		Questions:           make([]catalog.Question, len(m.Questions)),
	}
	if p.Tags == nil {
		p.Tags = make([]string, 0)
	}
	for i := range m.Tasks {
		p.Tasks[i] = m.Tasks[i].ToDomain()
	}
	for i := range m.Questions {
		p.Questions[i] = m.Questions[i].ToDomain()
	}
	return p
}

// FromDomain populates the persistence model and its children from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.Category = p.Category
	m.Area = p.Area
	m.Status = p.Status
	m.PricingMode = p.PricingMode
	m.ManualPrice = p.ManualPrice
	m.Price = p.Price
	m.DeliveryDays = p.DeliveryDays
	m.Tags = p.Tags

	m.Tasks = make([]ProductTaskModel, len(p.Tasks))
	for i := range p.Tasks {
		m.Tasks[i].FromDomain(p.ID, &p.Tasks[i])
	}
	m.Questions = make([]ProductQuestionModel, len(p.Questions))
	for i := range p.Questions {
		m.Questions[i].FromDomain(p.ID, &p.Questions[i])
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductTaskModel is the persistence model for a product task.
type ProductTaskModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name        string            `gorm:"type:varchar(200);not null"`
	Description string            `gorm:"type:text"`
	SpecialtyID *uuid.UUID        `gorm:"type:uuid;index"`
	Seniority   catalog.Seniority `gorm:"type:varchar(20);not null;default:'mid'"`
	Hours       decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0"`
	SortOrder   int               `gorm:"not null;default:0"`
	Steps       []TaskStepModel   `gorm:"foreignKey:TaskID"`
}

// TableName returns the table name for GORM
func (ProductTaskModel) TableName() string {
	return "product_tasks"
}

// ToDomain converts the persistence model to a domain Task.
func (m *ProductTaskModel) ToDomain() catalog.Task {
	t := catalog.Task{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		SpecialtyID: m.SpecialtyID,
		Seniority:   m.Seniority,
		Hours:       m.Hours,
		SortOrder:   m.SortOrder,
		Steps:       make([]catalog.TaskStep, len(m.Steps)),
	}
	for i, s := range m.Steps {
		t.Steps[i] = catalog.TaskStep{
			ID:          s.ID,
			Name:        s.Name,
			SpecialtyID: s.SpecialtyID,
			Seniority:   s.Seniority,
			Hours:       s.Hours,
			SortOrder:   s.SortOrder,
		}
	}
	return t
}

// FromDomain populates the persistence model from a domain Task.
func (m *ProductTaskModel) FromDomain(productID uuid.UUID, t *catalog.Task) {
	m.ID = t.ID
	m.ProductID = productID
	m.Name = t.Name
	m.Description = t.Description
	m.SpecialtyID = t.SpecialtyID
	m.Seniority = t.Seniority
	m.Hours = t.Hours
	m.SortOrder = t.SortOrder
	m.Steps = make([]TaskStepModel, len(t.Steps))
	for i, s := range t.Steps {
		m.Steps[i] = TaskStepModel{
			ID:          s.ID,
			TaskID:      t.ID,
			ProductID:   productID,
			Name:        s.Name,
			SpecialtyID: s.SpecialtyID,
			Seniority:   s.Seniority,
			Hours:       s.Hours,
			SortOrder:   s.SortOrder,
		}
	}
}

// TaskStepModel is the persistence model for a task step.
// ProductID is denormalized so steps can be purged and searched per product.
type TaskStepModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	TaskID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name        string            `gorm:"type:varchar(200);not null"`
	SpecialtyID *uuid.UUID        `gorm:"type:uuid;index"`
	Seniority   catalog.Seniority `gorm:"type:varchar(20);not null;default:'mid'"`
	Hours       decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0"`
	SortOrder   int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TaskStepModel) TableName() string {
	return "task_steps"
}

// ProductQuestionModel is the persistence model for a briefing question.
type ProductQuestionModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Text      string               `gorm:"type:varchar(500);not null"`
	Type      catalog.QuestionType `gorm:"type:varchar(20);not null;default:'text'"`
	Required  bool                 `gorm:"not null;default:false"`
	Options   []string             `gorm:"type:jsonb;serializer:json"`
	SortOrder int                  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductQuestionModel) TableName() string {
	return "product_questions"
}

// ToDomain converts the persistence model to a domain Question.
func (m *ProductQuestionModel) ToDomain() catalog.Question {
	options := m.Options
	if options == nil {
		options = make([]string, 0)
	}
	return catalog.Question{
		ID:        m.ID,
		Text:      m.Text,
		Type:      m.Type,
		Required:  m.Required,
		Options:   options,
		SortOrder: m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Question.
func (m *ProductQuestionModel) FromDomain(productID uuid.UUID, q *catalog.Question) {
	m.ID = q.ID
	m.ProductID = productID
	m.Text = q.Text
	m.Type = q.Type
	m.Required = q.Required
	m.Options = q.Options
	m.SortOrder = q.SortOrder
}
