package qualification

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/qualification"
)

// CreateQualificationRequest opens a qualification for a partner company
type CreateQualificationRequest struct {
	CompanyID   uuid.UUID `json:"company_id" binding:"required"`
	SpecialtyID uuid.UUID `json:"specialty_id" binding:"required"`
	Seniority   string    `json:"seniority" binding:"required,oneof=junior mid senior"`
}

// QualificationListFilter represents filter options for the qualification list
type QualificationListFilter struct {
	Status      string `form:"status" binding:"omitempty,oneof=pending testing submitted in_review approved rejected"`
	CompanyID   string `form:"company_id" binding:"omitempty,uuid"`
	SpecialtyID string `form:"specialty_id" binding:"omitempty,uuid"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page        int    `form:"page" binding:"min=0"`
	PageSize    int    `form:"page_size" binding:"min=0,max=100"`
}

// SubmitTestRequest carries the provider's answers
type SubmitTestRequest struct {
	Answers       map[string]string `json:"answers"`
	AttachmentKey string            `json:"attachment_key" binding:"max=500"`
}

// ScoreSubmissionRequest grades a submission
type ScoreSubmissionRequest struct {
	Score int    `json:"score" binding:"min=0,max=100"`
	Note  string `json:"note" binding:"max=2000"`
}

// CheckItemRequest ticks or unticks a checklist item
type CheckItemRequest struct {
	Checked bool   `json:"checked"`
	Note    string `json:"note" binding:"max=1000"`
}

// RejectQualificationRequest fails a qualification
type RejectQualificationRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=1000"`
}

// UploadURLRequest asks for a presigned attachment upload
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=200"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// UploadURLResponse is a presigned upload target
type UploadURLResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChecklistItemResponse represents one review step
type ChecklistItemResponse struct {
	ID        uuid.UUID  `json:"id"`
	Label     string     `json:"label"`
	Checked   bool       `json:"checked"`
	Note      string     `json:"note,omitempty"`
	CheckedBy *uuid.UUID `json:"checked_by,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// SubmissionResponse represents one test attempt
type SubmissionResponse struct {
	ID            uuid.UUID         `json:"id"`
	Answers       map[string]string `json:"answers"`
	AttachmentKey string            `json:"attachment_key,omitempty"`
	AttachmentURL string            `json:"attachment_url,omitempty"`
	Score         *int              `json:"score,omitempty"`
	ReviewerNote  string            `json:"reviewer_note,omitempty"`
	SubmittedAt   time.Time         `json:"submitted_at"`
	ScoredAt      *time.Time        `json:"scored_at,omitempty"`
}

// QualificationResponse represents a qualification in API responses
type QualificationResponse struct {
	ID                uuid.UUID               `json:"id"`
	TenantID          uuid.UUID               `json:"tenant_id"`
	CompanyID         uuid.UUID               `json:"company_id"`
	SpecialtyID       uuid.UUID               `json:"specialty_id"`
	Seniority         string                  `json:"seniority"`
	Status            string                  `json:"status"`
	ReviewerID        *uuid.UUID              `json:"reviewer_id,omitempty"`
	RejectionReason   string                  `json:"rejection_reason,omitempty"`
	DecidedAt         *time.Time              `json:"decided_at,omitempty"`
	ChecklistComplete bool                    `json:"checklist_complete"`
	Checklist         []ChecklistItemResponse `json:"checklist"`
	Submissions       []SubmissionResponse    `json:"submissions"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Version           int                     `json:"version"`
}

// QualificationListResponse represents a list item for qualifications
type QualificationListResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	SpecialtyID uuid.UUID  `json:"specialty_id"`
	Seniority   string     `json:"seniority"`
	Status      string     `json:"status"`
	Attempts    int        `json:"attempts"`
	LastScore   *int       `json:"last_score,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToQualificationResponse converts a domain Qualification to QualificationResponse
func ToQualificationResponse(q *qualification.Qualification) QualificationResponse {
	checklist := make([]ChecklistItemResponse, len(q.Checklist))
	for i, item := range q.Checklist {
		checklist[i] = ChecklistItemResponse{
			ID:        item.ID,
			Label:     item.Label,
			Checked:   item.Checked,
			Note:      item.Note,
			CheckedBy: item.CheckedBy,
			CheckedAt: item.CheckedAt,
		}
	}
	submissions := make([]SubmissionResponse, len(q.Submissions))
	for i, s := range q.Submissions {
		submissions[i] = SubmissionResponse{
			ID:            s.ID,
			Answers:       s.Answers,
			AttachmentKey: s.AttachmentKey,
			Score:         s.Score,
			ReviewerNote:  s.ReviewerNote,
			SubmittedAt:   s.SubmittedAt,
			ScoredAt:      s.ScoredAt,
		}
	}
	return QualificationResponse{
		ID:                q.ID,
		TenantID:          q.TenantID,
		CompanyID:         q.CompanyID,
		SpecialtyID:       q.SpecialtyID,
		Seniority:         string(q.Seniority),
		Status:            string(q.Status),
		ReviewerID:        q.ReviewerID,
		RejectionReason:   q.RejectionReason,
		DecidedAt:         q.DecidedAt,
		ChecklistComplete: q.ChecklistComplete(),
		Checklist:         checklist,
		Submissions:       submissions,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
		Version:           q.Version,
	}
}

// ToQualificationListResponse converts a domain Qualification to QualificationListResponse
func ToQualificationListResponse(q *qualification.Qualification) QualificationListResponse {
	resp := QualificationListResponse{
		ID:          q.ID,
		CompanyID:   q.CompanyID,
		SpecialtyID: q.SpecialtyID,
		Seniority:   string(q.Seniority),
		Status:      string(q.Status),
		Attempts:    len(q.Submissions),
		DecidedAt:   q.DecidedAt,
		CreatedAt:   q.CreatedAt,
	}
	if latest := q.LatestSubmission(); latest != nil {
		resp.LastScore = latest.Score
	}
	return resp
}
