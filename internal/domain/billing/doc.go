// Package billing contains the invoice aggregate.
//
// An invoice is drafted for a company, optionally against a project, and
// moves through draft, issued, paid and cancelled. Line items may only be
// changed while the invoice is a draft; totals are recomputed on every
// change and rounded to cents. Overdue is derived from the due date and
// is never stored.
package billing
