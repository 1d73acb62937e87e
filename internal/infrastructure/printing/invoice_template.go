package printing

// invoiceTemplate is the built-in invoice layout. It renders an InvoiceDocument.
const invoiceTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Invoice {{.Invoice.Number}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; margin: 0; }
  header { display: flex; justify-content: space-between; border-bottom: 2px solid #333; padding-bottom: 12px; }
  h1 { font-size: 22px; margin: 0; }
  .muted { color: #777; }
  .status { font-weight: bold; text-transform: uppercase; }
  .status.paid { color: #2e7d32; }
  .status.cancelled { color: #c62828; }
  .parties { display: flex; justify-content: space-between; margin: 18px 0; }
  table { width: 100%; border-collapse: collapse; }
  th { text-align: left; border-bottom: 1px solid #999; padding: 6px 4px; }
  td { padding: 6px 4px; border-bottom: 1px solid #eee; }
  .num { text-align: right; white-space: nowrap; }
  .totals { width: 40%; margin-left: auto; margin-top: 12px; }
  .totals td { border: none; }
  .grand td { font-weight: bold; font-size: 14px; border-top: 1px solid #333; }
  .notes { margin-top: 24px; white-space: pre-wrap; }
</style>
</head>
<body>
<header>
  <div>
    <h1>{{default .Issuer "Invoice"}}</h1>
    <div class="muted">Generated {{formatDateTime .GeneratedAt}}</div>
  </div>
  <div class="num">
    <div><strong>Invoice {{.Invoice.Number}}</strong></div>
    <div class="status {{.Invoice.Status}}">{{statusText .Invoice.Status}}</div>
    {{- if .Invoice.IssueDate}}<div>Issued {{formatDate .Invoice.IssueDate}}</div>{{end}}
    <div>Due {{formatDate .Invoice.DueDate}}</div>
    {{- if .Invoice.PaidAt}}<div>Paid {{formatDate .Invoice.PaidAt}} ({{statusText .Invoice.PaymentMethod}})</div>{{end}}
  </div>
</header>

<section class="parties">
  <div>
    <div class="muted">Bill to</div>
    <div><strong>{{.Company.Name}}</strong></div>
    {{- if .Company.TradeName}}<div>{{.Company.TradeName}}</div>{{end}}
    <div>{{.Company.Document}}</div>
    {{- if .Company.Address}}<div>{{.Company.Address}}</div>{{end}}
    {{- if .Company.Email}}<div>{{.Company.Email}}</div>{{end}}
    {{- if .Company.Phone}}<div>{{.Company.Phone}}</div>{{end}}
  </div>
  {{- with .Project}}
  <div class="num">
    <div class="muted">Project</div>
    <div>{{.Code}}</div>
    <div>{{.Name}}</div>
  </div>
  {{- end}}
</section>

<table>
  <thead>
    <tr><th>#</th><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr>
  </thead>
  <tbody>
  {{- range $i, $item := .Invoice.Items}}
    <tr>
      <td>{{inc $i}}</td>
      <td>{{$item.Description}}</td>
      <td class="num">{{formatDecimal $item.Quantity 2}}</td>
      <td class="num">{{formatMoney $item.UnitPrice}}</td>
      <td class="num">{{formatMoney $item.Amount}}</td>
    </tr>
  {{- end}}
  </tbody>
</table>

<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{formatMoney .Invoice.Subtotal}}</td></tr>
  <tr><td>Tax ({{formatPercent .Invoice.TaxRate}})</td><td class="num">{{formatMoney .Invoice.TaxAmount}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{formatMoney .Invoice.Total}}</td></tr>
</table>

{{- if .Invoice.Notes}}
<div class="notes">{{.Invoice.Notes}}</div>
{{- end}}
{{- if .Invoice.CancelReason}}
<div class="notes muted">Cancelled: {{.Invoice.CancelReason}}</div>
{{- end}}
</body>
</html>
`

const invoiceFooterTemplate = `<div style="font-size:8px; width:100%; text-align:center; color:#777;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`
