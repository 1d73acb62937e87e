package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/project"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InvoiceService handles invoice drafting, the invoice lifecycle and printing
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	paymentRepo    billing.WalletPaymentRepository
	companyRepo    partner.CompanyRepository
	projectRepo    project.ProjectRepository
	printer        InvoicePrinter
	issuer         string
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.WalletPaymentRepository,
	companyRepo partner.CompanyRepository,
	projectRepo project.ProjectRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		companyRepo: companyRepo,
		projectRepo: projectRepo,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger
func (s *InvoiceService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetPrinter enables HTML and PDF rendering. issuer is printed in the document header.
func (s *InvoiceService) SetPrinter(printer InvoicePrinter, issuer string) {
	s.printer = printer
	s.issuer = issuer
}

// Create drafts an invoice numbered INV-YYYYMM-NNNN for the current month
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.checkCompany(ctx, tenantID, req.CompanyID); err != nil {
		return nil, err
	}
	if req.ProjectID != nil {
		if err := s.checkProject(ctx, tenantID, req.CompanyID, *req.ProjectID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	seq, err := s.invoiceRepo.NextSequence(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(tenantID, billing.FormatInvoiceNumber(now, seq), req.CompanyID, req.TaxRate, req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		invoice.SetCreatedBy(*req.CreatedBy)
	}
	if err := invoice.SetProject(req.ProjectID); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		if err := invoice.UpdateTerms(req.TaxRate, req.DueDate, req.Notes); err != nil {
			return nil, err
		}
	}
	if err := addItems(invoice, req.Items); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice, now)
	return &response, nil
}

// GetByID retrieves an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice, s.now())
	return &response, nil
}

// List returns one page of invoices and the total count
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CompanyID != "" {
		domainFilter.Filters["company_id"] = filter.CompanyID
	}
	if filter.ProjectID != "" {
		domainFilter.Filters["project_id"] = filter.ProjectID
	}
	if filter.Overdue {
		domainFilter.Filters["overdue"] = true
	}
	domainFilter = domainFilter.Normalize()

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	responses := make([]InvoiceListResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceListResponse(&invoices[i], now)
	}
	return responses, total, nil
}

// Update changes a draft. Omitted fields keep their value.
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !invoice.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft invoices can be modified")
	}

	if req.ProjectID != nil {
		if err := s.checkProject(ctx, tenantID, invoice.CompanyID, *req.ProjectID); err != nil {
			return nil, err
		}
		if err := invoice.SetProject(req.ProjectID); err != nil {
			return nil, err
		}
	}

	if req.TaxRate != nil || req.DueDate != nil || req.Notes != nil {
		taxRate, dueDate, notes := invoice.TaxRate, invoice.DueDate, invoice.Notes
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		if req.DueDate != nil {
			dueDate = *req.DueDate
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := invoice.UpdateTerms(taxRate, dueDate, notes); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		if err := invoice.ClearItems(); err != nil {
			return nil, err
		}
		if err := addItems(invoice, *req.Items); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, invoice)
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !invoice.IsDraft() {
		return shared.NewDomainError("CANNOT_DELETE", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, id)
}

// Issue finalizes a draft
func (s *InvoiceService) Issue(ctx context.Context, tenantID, id uuid.UUID, req IssueInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	issueDate := s.now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	if err := invoice.Issue(issueDate); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Pay records an external payment of an issued invoice
func (s *InvoiceService) Pay(ctx context.Context, tenantID, id uuid.UUID, req PayInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if err := invoice.MarkPaid(paidAt, billing.PaymentMethodExternal); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Cancel voids a draft or issued invoice
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Cancel(req.Reason); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// PayWithWallet debits the billed company's wallet for the invoice total and marks the
// invoice paid. Both changes are persisted in one transaction.
func (s *InvoiceService) PayWithWallet(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "pay_with_wallet")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrInvoiceID, id.String(),
	)

	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if invoice.Status != billing.InvoiceStatusIssued {
		return nil, shared.NewDomainError("INVALID_STATE", "Only issued invoices can be paid")
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, invoice.Number,
		telemetry.SpanAttrCompanyID, invoice.CompanyID.String(),
		telemetry.SpanAttrAmount, invoice.Total.InexactFloat64(),
	)

	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, invoice.CompanyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	tx, err := company.Debit(invoice.Total, "Payment of invoice "+invoice.Number)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	tx.WithSource(partner.WalletSourceInvoice, invoice.ID).WithReference(invoice.Number)
	if operatorID != nil {
		tx.WithOperator(*operatorID)
	}

	if err := invoice.MarkPaid(s.now(), billing.PaymentMethodWallet); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SavePaidWithWallet(ctx, invoice, company, tx); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := shared.PublishAndClear(ctx, s.eventPublisher, invoice); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, company); err != nil {
		s.logger.Warn("Failed to publish wallet events", zap.String("company_id", company.ID.String()), zap.Error(err))
	}

	s.logger.Info("Invoice paid with wallet",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice", invoice.Number),
		zap.String("amount", invoice.Total.String()),
		zap.String("balance_after", tx.BalanceAfter.String()),
	)

	response := ToInvoiceResponse(invoice, s.now())
	return &response, nil
}

// RenderHTML returns the printable HTML of an invoice
func (s *InvoiceService) RenderHTML(ctx context.Context, tenantID, id uuid.UUID) ([]byte, error) {
	if s.printer == nil {
		return nil, ErrPrintingDisabled
	}
	doc, err := s.Document(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.printer.RenderHTML(ctx, doc)
}

// RenderPDF returns the invoice as a PDF document
func (s *InvoiceService) RenderPDF(ctx context.Context, tenantID, id uuid.UUID) ([]byte, error) {
	if s.printer == nil {
		return nil, ErrPrintingDisabled
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "render_pdf")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceID, id.String())

	doc, err := s.Document(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	pdf, err := s.printer.RenderPDF(ctx, doc)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return pdf, nil
}

// Document assembles the printable view of an invoice
func (s *InvoiceService) Document(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceDocument, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, invoice.CompanyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	doc := &InvoiceDocument{
		Issuer:  s.issuer,
		Invoice: ToInvoiceResponse(invoice, now),
		Company: DocumentCompany{
			Name:      company.Name,
			TradeName: company.TradeName,
			Document:  company.Document,
			Email:     company.Email,
			Phone:     company.Phone,
			Address:   company.Address,
		},
		GeneratedAt: now,
	}

	if invoice.ProjectID != nil {
		p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, *invoice.ProjectID)
		switch {
		case err == nil:
			doc.Project = &DocumentProject{Code: p.Code, Name: p.Name}
		case errors.Is(err, shared.ErrNotFound):
			s.logger.Debug("Invoice project no longer exists", zap.String("project_id", invoice.ProjectID.String()))
		default:
			return nil, err
		}
	}
	return doc, nil
}

func (s *InvoiceService) save(ctx context.Context, invoice *billing.Invoice) (*InvoiceResponse, error) {
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, invoice); err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice, s.now())
	return &response, nil
}

func (s *InvoiceService) checkCompany(ctx context.Context, tenantID, companyID uuid.UUID) error {
	if _, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, companyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_COMPANY", "Company not found")
		}
		return err
	}
	return nil
}

// checkProject requires the project to exist and belong to the billed company
func (s *InvoiceService) checkProject(ctx context.Context, tenantID, companyID, projectID uuid.UUID) error {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PROJECT", "Project not found")
		}
		return err
	}
	if p.CompanyID != companyID {
		return shared.NewDomainError("INVALID_PROJECT", "Project belongs to another company")
	}
	return nil
}

func addItems(invoice *billing.Invoice, items []InvoiceItemInput) error {
	for _, item := range items {
		if _, err := invoice.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}
