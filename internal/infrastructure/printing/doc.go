// Package printing renders invoices as HTML through html/template and as PDF
// through a headless Chrome driven by chromedp.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://chrome:9222"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	printer, err := NewInvoicePrinter(renderer, InvoicePrinterConfig{PaperSize: PaperSizeA4, Currency: "$"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := printer.RenderPDF(ctx, doc)
package printing
