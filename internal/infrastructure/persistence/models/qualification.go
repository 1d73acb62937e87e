package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/qualification"
)

// QualificationModel is the persistence model for the Qualification aggregate root.
type QualificationModel struct {
	TenantAggregateModel
	CompanyID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	SpecialtyID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Seniority       catalog.Seniority    `gorm:"type:varchar(20);not null"`
	Status          qualification.Status `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewerID      *uuid.UUID           `gorm:"type:uuid"`
	RejectionReason string               `gorm:"type:varchar(500)"`
	DecidedAt       *time.Time
	Checklist       []ChecklistItemModel `gorm:"foreignKey:QualificationID"`
	Submissions     []SubmissionModel    `gorm:"foreignKey:QualificationID"`
}

// TableName returns the table name for GORM
func (QualificationModel) TableName() string {
	return "qualifications"
}

// ToDomain converts the persistence model to a domain Qualification.
func (m *QualificationModel) ToDomain() *qualification.Qualification {
	q := &qualification.Qualification{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		CompanyID:           m.CompanyID,
		SpecialtyID:         m.SpecialtyID,
		Seniority:           m.Seniority,
		Status:              m.Status,
		ReviewerID:          m.ReviewerID,
		RejectionReason:     m.RejectionReason,
		DecidedAt:           m.DecidedAt,
		Checklist:           make([]qualification.ChecklistItem, len(m.Checklist)),
		Submissions:         make([]qualification.Submission, len(m.Submissions)),
	}
	for i, c := range m.Checklist {
		q.Checklist[i] = qualification.ChecklistItem{
			ID:        c.ID,
			Label:     c.Label,
			Checked:   c.Checked,
			Note:      c.Note,
			CheckedBy: c.CheckedBy,
			CheckedAt: c.CheckedAt,
			SortOrder: c.SortOrder,
		}
	}
	for i, s := range m.Submissions {
		answers := s.Answers
		if answers == nil {
			answers = make(map[string]string)
		}
		q.Submissions[i] = qualification.Submission{
			ID:            s.ID,
			Answers:       answers,
			AttachmentKey: s.AttachmentKey,
			Score:         s.Score,
			ReviewerNote:  s.ReviewerNote,
			SubmittedAt:   s.SubmittedAt,
			ScoredAt:      s.ScoredAt,
		}
	}
	return q
}

// FromDomain populates the persistence model from a domain Qualification.
func (m *QualificationModel) FromDomain(q *qualification.Qualification) {
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	m.CompanyID = q.CompanyID
	m.SpecialtyID = q.SpecialtyID
	m.Seniority = q.Seniority
	m.Status = q.Status
	m.ReviewerID = q.ReviewerID
	m.RejectionReason = q.RejectionReason
	m.DecidedAt = q.DecidedAt
	m.Checklist = make([]ChecklistItemModel, len(q.Checklist))
	for i, c := range q.Checklist {
		m.Checklist[i] = ChecklistItemModel{
			ID:              c.ID,
			QualificationID: q.ID,
			Label:           c.Label,
			Checked:         c.Checked,
			Note:            c.Note,
			CheckedBy:       c.CheckedBy,
			CheckedAt:       c.CheckedAt,
			SortOrder:       c.SortOrder,
		}
	}
	m.Submissions = make([]SubmissionModel, len(q.Submissions))
	for i, s := range q.Submissions {
		m.Submissions[i] = SubmissionModel{
			ID:              s.ID,
			QualificationID: q.ID,
			Answers:         s.Answers,
			AttachmentKey:   s.AttachmentKey,
			Score:           s.Score,
			ReviewerNote:    s.ReviewerNote,
			SubmittedAt:     s.SubmittedAt,
			ScoredAt:        s.ScoredAt,
		}
	}
}

// QualificationModelFromDomain creates a new persistence model from a domain Qualification.
func QualificationModelFromDomain(q *qualification.Qualification) *QualificationModel {
	m := &QualificationModel{}
	m.FromDomain(q)
	return m
}

// ChecklistItemModel is the persistence model for a review checklist item.
type ChecklistItemModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	QualificationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Label           string     `gorm:"type:varchar(200);not null"`
	Checked         bool       `gorm:"not null;default:false"`
	Note            string     `gorm:"type:text"`
	CheckedBy       *uuid.UUID `gorm:"type:uuid"`
	CheckedAt       *time.Time
	SortOrder       int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ChecklistItemModel) TableName() string {
	return "qualification_checklist_items"
}

// SubmissionModel is the persistence model for a test submission.
type SubmissionModel struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	QualificationID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Answers         map[string]string `gorm:"type:jsonb;serializer:json"`
	AttachmentKey   string            `gorm:"type:varchar(500)"`
	Score           *int
	ReviewerNote    string    `gorm:"type:text"`
	SubmittedAt     time.Time `gorm:"not null"`
	ScoredAt        *time.Time
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "qualification_submissions"
}
