// Package models contains the GORM persistence models that map aggregates to tables.
// Domain entities carry no ORM tags; each model converts with ToDomain and FromDomain.
//
// Child collections (product tasks, company credentials, invoice items, ...) are separate
// models loaded with Preload and written by the repositories inside one transaction.
package models
