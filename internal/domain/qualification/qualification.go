package qualification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
)

// Status represents the workflow stage
type Status string

const (
	StatusPending   Status = "pending"
	StatusTesting   Status = "testing"
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusTesting, StatusSubmitted, StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PassingScore is the minimum score of the latest submission for approval
const PassingScore = 70

// DefaultChecklist is attached to every new qualification
var DefaultChecklist = []string{
	"Identity verified",
	"Documents reviewed",
	"Technical test evaluated",
	"Interview completed",
}

// ChecklistItem is one review step
type ChecklistItem struct {
	ID        uuid.UUID
	Label     string
	Checked   bool
	Note      string
	CheckedBy *uuid.UUID
	CheckedAt *time.Time
	SortOrder int
}

// Submission is one attempt at the qualification test
type Submission struct {
	ID            uuid.UUID
	Answers       map[string]string
	AttachmentKey string
	Score         *int
	ReviewerNote  string
	SubmittedAt   time.Time
	ScoredAt      *time.Time
}

// Qualification is the aggregate root of the provider onboarding workflow
type Qualification struct {
	shared.TenantAggregateRoot
	CompanyID       uuid.UUID
	SpecialtyID     uuid.UUID
	Seniority       catalog.Seniority
	Status          Status
	ReviewerID      *uuid.UUID
	RejectionReason string
	DecidedAt       *time.Time
	Checklist       []ChecklistItem
	Submissions     []Submission
}

// NewQualification opens a pending qualification with the default checklist
func NewQualification(tenantID, companyID, specialtyID uuid.UUID, seniority catalog.Seniority) (*Qualification, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Qualification must reference a company")
	}
	if specialtyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPECIALTY", "Qualification must reference a specialty")
	}
	if !seniority.IsValid() {
		return nil, shared.NewDomainError("INVALID_SENIORITY", "Unknown seniority level: "+string(seniority))
	}

	q := &Qualification{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		SpecialtyID:         specialtyID,
		Seniority:           seniority,
		Status:              StatusPending,
		Checklist:           make([]ChecklistItem, len(DefaultChecklist)),
		Submissions:         make([]Submission, 0),
	}
	for i, label := range DefaultChecklist {
		q.Checklist[i] = ChecklistItem{ID: uuid.New(), Label: label, SortOrder: i}
	}

	q.AddDomainEvent(NewQualificationStatusChangedEvent(q, "", StatusPending))

	return q, nil
}

// StartTest releases the test to the provider
func (q *Qualification) StartTest() error {
	if q.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Test can only start from pending")
	}
	q.transition(StatusTesting)
	return nil
}

// Submit records the provider's answers
func (q *Qualification) Submit(answers map[string]string, attachmentKey string) (*Submission, error) {
	if q.Status != StatusTesting {
		return nil, shared.NewDomainError("INVALID_STATE", "Answers can only be submitted while testing")
	}
	if len(answers) == 0 && strings.TrimSpace(attachmentKey) == "" {
		return nil, shared.NewDomainError("EMPTY_SUBMISSION", "Submission needs answers or an attachment")
	}

	copied := make(map[string]string, len(answers))
	for k, v := range answers {
		copied[k] = v
	}
	q.Submissions = append(q.Submissions, Submission{
		ID:            uuid.New(),
		Answers:       copied,
		AttachmentKey: strings.TrimSpace(attachmentKey),
		SubmittedAt:   time.Now(),
	})
	q.transition(StatusSubmitted)
	return &q.Submissions[len(q.Submissions)-1], nil
}

// StartReview assigns a reviewer to a submitted test
func (q *Qualification) StartReview(reviewerID uuid.UUID) error {
	if q.Status != StatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Review can only start after submission")
	}
	q.ReviewerID = &reviewerID
	q.transition(StatusInReview)
	return nil
}

// Score grades a submission from 0 to 100
func (q *Qualification) Score(submissionID uuid.UUID, score int, note string) error {
	if q.Status != StatusInReview {
		return shared.NewDomainError("INVALID_STATE", "Submissions can only be scored during review")
	}
	if score < 0 || score > 100 {
		return shared.NewDomainError("INVALID_SCORE", "Score must be between 0 and 100")
	}
	for i := range q.Submissions {
		if q.Submissions[i].ID == submissionID {
			now := time.Now()
			q.Submissions[i].Score = &score
			q.Submissions[i].ReviewerNote = note
			q.Submissions[i].ScoredAt = &now
			q.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Submission not found")
}

// CheckItem ticks or unticks a checklist item
func (q *Qualification) CheckItem(itemID uuid.UUID, checked bool, note string, reviewerID uuid.UUID) error {
	if q.Status != StatusInReview {
		return shared.NewDomainError("INVALID_STATE", "Checklist can only change during review")
	}
	for i := range q.Checklist {
		if q.Checklist[i].ID != itemID {
			continue
		}
		item := &q.Checklist[i]
		item.Checked = checked
		item.Note = note
		if checked {
			now := time.Now()
			item.CheckedBy = &reviewerID
			item.CheckedAt = &now
		} else {
			item.CheckedBy = nil
			item.CheckedAt = nil
		}
		q.IncrementVersion()
		return nil
	}
	return shared.NewDomainError("NOT_FOUND", "Checklist item not found")
}

// LatestSubmission returns the most recent submission, if any
func (q *Qualification) LatestSubmission() *Submission {
	if len(q.Submissions) == 0 {
		return nil
	}
	return &q.Submissions[len(q.Submissions)-1]
}

// ChecklistComplete reports whether every item is checked
func (q *Qualification) ChecklistComplete() bool {
	for _, item := range q.Checklist {
		if !item.Checked {
			return false
		}
	}
	return true
}

// Approve certifies the provider. All checklist items must be checked and the
// latest submission must be scored at least PassingScore.
func (q *Qualification) Approve() error {
	if q.Status != StatusInReview {
		return shared.NewDomainError("INVALID_STATE", "Only qualifications in review can be approved")
	}
	if !q.ChecklistComplete() {
		return shared.NewDomainError("CHECKLIST_INCOMPLETE", "All checklist items must be checked before approval")
	}
	latest := q.LatestSubmission()
	if latest == nil || latest.Score == nil {
		return shared.NewDomainError("NOT_SCORED", "The latest submission must be scored before approval")
	}
	if *latest.Score < PassingScore {
		return shared.NewDomainError("SCORE_TOO_LOW", "The latest submission did not reach the passing score")
	}

	now := time.Now()
	q.DecidedAt = &now
	q.RejectionReason = ""
	q.transition(StatusApproved)
	return nil
}

// Reject fails the qualification with a reason
func (q *Qualification) Reject(reason string) error {
	if q.Status != StatusInReview {
		return shared.NewDomainError("INVALID_STATE", "Only qualifications in review can be rejected")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	q.DecidedAt = &now
	q.RejectionReason = reason
	q.transition(StatusRejected)
	return nil
}

// Reopen lets a rejected provider try again. The checklist is reset.
func (q *Qualification) Reopen() error {
	if q.Status != StatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Only rejected qualifications can be reopened")
	}
	for i := range q.Checklist {
		q.Checklist[i].Checked = false
		q.Checklist[i].CheckedBy = nil
		q.Checklist[i].CheckedAt = nil
	}
	q.DecidedAt = nil
	q.ReviewerID = nil
	q.transition(StatusPending)
	return nil
}

func (q *Qualification) transition(to Status) {
	from := q.Status
	q.Status = to
	q.IncrementVersion()
	q.AddDomainEvent(NewQualificationStatusChangedEvent(q, from, to))
}
