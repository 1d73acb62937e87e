package qualification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/qualification"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const attachmentPrefix = "qualifications"

// QualificationService runs the partner onboarding workflow
type QualificationService struct {
	repo           qualification.Repository
	companyRepo    partner.CompanyRepository
	specialtyRepo  catalog.SpecialtyRepository
	storage        AttachmentStorage
	uploadExpiry   time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewQualificationService creates a new QualificationService. storage may be nil, in which
// case attachments are neither verified nor linked.
func NewQualificationService(
	repo qualification.Repository,
	companyRepo partner.CompanyRepository,
	specialtyRepo catalog.SpecialtyRepository,
	storage AttachmentStorage,
) *QualificationService {
	return &QualificationService{
		repo:          repo,
		companyRepo:   companyRepo,
		specialtyRepo: specialtyRepo,
		storage:       storage,
		logger:        zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QualificationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger
func (s *QualificationService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetUploadExpiry overrides the storage default lifetime of presigned URLs
func (s *QualificationService) SetUploadExpiry(d time.Duration) {
	s.uploadExpiry = d
}

// Create opens a qualification. Only partner companies qualify, the specialty must be
// active and the company may hold one open qualification per specialty.
func (s *QualificationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQualificationRequest) (*QualificationResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, req.CompanyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_COMPANY", "Company not found")
		}
		return nil, err
	}
	if company.Type != partner.CompanyTypePartner {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Only partner companies can be qualified")
	}

	specialty, err := s.specialtyRepo.FindByIDForTenant(ctx, tenantID, req.SpecialtyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_SPECIALTY", "Specialty not found")
		}
		return nil, err
	}
	if !specialty.IsActive() {
		return nil, shared.NewDomainError("INVALID_SPECIALTY", "Specialty is inactive")
	}

	exists, err := s.repo.ExistsOpen(ctx, tenantID, req.CompanyID, req.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Company already has an open qualification for this specialty")
	}

	q, err := qualification.NewQualification(tenantID, req.CompanyID, req.SpecialtyID, catalog.Seniority(req.Seniority))
	if err != nil {
		return nil, err
	}
	return s.save(ctx, q)
}

// GetByID retrieves a qualification. Attachments get short-lived download URLs.
func (s *QualificationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*QualificationResponse, error) {
	q, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToQualificationResponse(q)
	if s.storage != nil {
		for i := range response.Submissions {
			key := response.Submissions[i].AttachmentKey
			if key == "" {
				continue
			}
			url, _, err := s.storage.GenerateDownloadURL(ctx, key, s.uploadExpiry)
			if err != nil {
				s.logger.Warn("Failed to sign attachment download", zap.String("key", key), zap.Error(err))
				continue
			}
			response.Submissions[i].AttachmentURL = url
		}
	}
	return &response, nil
}

// List returns one page of qualifications and the total count
func (s *QualificationService) List(ctx context.Context, tenantID uuid.UUID, filter QualificationListFilter) ([]QualificationListResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CompanyID != "" {
		domainFilter.Filters["company_id"] = filter.CompanyID
	}
	if filter.SpecialtyID != "" {
		domainFilter.Filters["specialty_id"] = filter.SpecialtyID
	}
	domainFilter = domainFilter.Normalize()

	items, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QualificationListResponse, len(items))
	for i := range items {
		responses[i] = ToQualificationListResponse(&items[i])
	}
	return responses, total, nil
}

// StartTest releases the test to the provider
func (s *QualificationService) StartTest(ctx context.Context, tenantID, id uuid.UUID) (*QualificationResponse, error) {
	return s.mutate(ctx, tenantID, id, func(q *qualification.Qualification) error {
		return q.StartTest()
	})
}

// Submit records answers. An attachment key must come from UploadURL for this
// qualification and the object must exist.
func (s *QualificationService) Submit(ctx context.Context, tenantID, id uuid.UUID, req SubmitTestRequest) (*QualificationResponse, error) {
	key := strings.TrimSpace(req.AttachmentKey)
	if key != "" {
		if !strings.HasPrefix(key, attachmentKeyPrefix(tenantID, id)) {
			return nil, shared.NewDomainError("INVALID_ATTACHMENT", "Attachment does not belong to this qualification")
		}
		if s.storage != nil {
			ok, err := s.storage.ObjectExists(ctx, key)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, shared.NewDomainError("ATTACHMENT_NOT_FOUND", "Attachment has not been uploaded")
			}
		}
	}
	return s.mutate(ctx, tenantID, id, func(q *qualification.Qualification) error {
		_, err := q.Submit(req.Answers, key)
		return err
	})
}

// StartReview assigns the reviewer to a submitted test
func (s *QualificationService) StartReview(ctx context.Context, tenantID, id, reviewerID uuid.UUID) (*QualificationResponse, error) {
	return s.mutate(ctx, tenantID, id, func(q *qualification.Qualification) error {
		return q.StartReview(reviewerID)
	})
}

// Score grades a submission
func (s *QualificationService) Score(ctx context.Context, tenantID, id, submissionID uuid.UUID, req ScoreSubmissionRequest) (*QualificationResponse, error) {
	return s.mutate(ctx, tenantID, id, func(q *qualification.Qualification) error {
		return q.Score(submissionID, req.Score, strings.TrimSpace(req.Note))
	})
}

// CheckItem ticks or unticks a checklist item on behalf of the reviewer
func (s *QualificationService) CheckItem(ctx context.Context, tenantID, id, itemID, reviewerID uuid.UUID, req CheckItemRequest) (*QualificationResponse, error) {
	return s.mutate(ctx, tenantID, id, func(q *qualification.Qualification) error {
		return q.CheckItem(itemID, req.Checked, strings.TrimSpace(req.Note), reviewerID)
	})
}

// Approve certifies the provider
func (s *QualificationService) Approve(ctx context.Context, tenantID, id uuid.UUID) (*QualificationResponse, error) {
	return s.decide(ctx, tenantID, id, "approve", func(q *qualification.Qualification) error {
		return q.Approve()
	})
}

// Reject fails the qualification
func (s *QualificationService) Reject(ctx context.Context, tenantID, id uuid.UUID, req RejectQualificationRequest) (*QualificationResponse, error) {
	return s.decide(ctx, tenantID, id, "reject", func(q *qualification.Qualification) error {
		return q.Reject(req.Reason)
	})
}

// Reopen lets a rejected provider try again
func (s *QualificationService) Reopen(ctx context.Context, tenantID, id uuid.UUID) (*QualificationResponse, error) {
	return s.mutate(ctx, tenantID, id, func(q *qualification.Qualification) error {
		return q.Reopen()
	})
}

// UploadURL presigns an attachment upload. Uploads are accepted while the test runs.
func (s *QualificationService) UploadURL(ctx context.Context, tenantID, id uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Attachment storage is not configured")
	}
	q, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if q.Status != qualification.StatusTesting {
		return nil, shared.NewDomainError("INVALID_STATE", "Attachments can only be uploaded while testing")
	}

	fileName := sanitizeFileName(req.FileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name is required")
	}
	key := fmt.Sprintf("%s%s-%s", attachmentKeyPrefix(tenantID, id), uuid.NewString(), fileName)

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.uploadExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadURLResponse{Key: key, URL: url, ExpiresAt: expiresAt}, nil
}

func (s *QualificationService) decide(ctx context.Context, tenantID, id uuid.UUID, decision string, fn func(*qualification.Qualification) error) (*QualificationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "qualification", decision)
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrQualificationID, id.String(),
	)

	resp, err := s.mutate(ctx, tenantID, id, fn)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.logger.Info("Qualification decided",
		zap.String("qualification_id", id.String()),
		zap.String("status", resp.Status),
	)
	return resp, nil
}

func (s *QualificationService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*qualification.Qualification) error) (*QualificationResponse, error) {
	q, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	return s.save(ctx, q)
}

func (s *QualificationService) save(ctx context.Context, q *qualification.Qualification) (*QualificationResponse, error) {
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, q); err != nil {
		return nil, err
	}
	response := ToQualificationResponse(q)
	return &response, nil
}

func attachmentKeyPrefix(tenantID, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/", attachmentPrefix, tenantID, id)
}

// sanitizeFileName keeps letters, digits, dot, dash and underscore
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	cleaned = strings.Trim(cleaned, ".")
	if len(cleaned) > 100 {
		cleaned = cleaned[len(cleaned)-100:]
	}
	return cleaned
}
