package printing

import (
	"context"
	"html/template"

	billingapp "github.com/servicehub/admin/internal/application/billing"
)

// InvoicePrinterConfig configures invoice rendering
type InvoicePrinterConfig struct {
	PaperSize PaperSize
	Margins   *Margins
	Currency  string
	// Template replaces the built-in layout when set
	Template string
}

// InvoicePrinter renders invoice documents to HTML and, through a PDFRenderer, to PDF
type InvoicePrinter struct {
	renderer  PDFRenderer
	engine    *TemplateEngine
	tmpl      *template.Template
	paperSize PaperSize
	margins   Margins
}

// NewInvoicePrinter parses the invoice layout once. renderer may be nil when only HTML is needed.
func NewInvoicePrinter(renderer PDFRenderer, cfg InvoicePrinterConfig) (*InvoicePrinter, error) {
	if cfg.PaperSize == "" {
		cfg.PaperSize = PaperSizeA4
	}
	if !cfg.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(cfg.PaperSize), nil)
	}
	margins := DefaultMargins()
	if cfg.Margins != nil {
		margins = *cfg.Margins
	}
	content := cfg.Template
	if content == "" {
		content = invoiceTemplate
	}

	engine := NewTemplateEngine(
		WithCurrency(cfg.Currency),
		WithFuncs(template.FuncMap{"inc": func(i int) int { return i + 1 }}),
	)
	tmpl, err := engine.Parse("invoice", content)
	if err != nil {
		return nil, err
	}

	return &InvoicePrinter{
		renderer:  renderer,
		engine:    engine,
		tmpl:      tmpl,
		paperSize: cfg.PaperSize,
		margins:   margins,
	}, nil
}

// RenderHTML renders the invoice as a standalone HTML page
func (p *InvoicePrinter) RenderHTML(_ context.Context, doc *billingapp.InvoiceDocument) ([]byte, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "invoice document is nil", nil)
	}
	return p.engine.Execute(p.tmpl, doc)
}

// RenderPDF renders the invoice HTML and prints it to PDF
func (p *InvoicePrinter) RenderPDF(ctx context.Context, doc *billingapp.InvoiceDocument) ([]byte, error) {
	if p.renderer == nil {
		return nil, billingapp.ErrPrintingDisabled
	}
	html, err := p.RenderHTML(ctx, doc)
	if err != nil {
		return nil, err
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       string(html),
		PaperSize:  p.paperSize,
		Margins:    p.margins,
		Title:      "Invoice " + doc.Invoice.Number,
		FooterHTML: invoiceFooterTemplate,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

var _ billingapp.InvoicePrinter = (*InvoicePrinter)(nil)
