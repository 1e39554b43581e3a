// Package models contains GORM persistence models for the ledger tables.
// Domain entities carry no ORM tags; each model converts with ToDomain and
// FromDomain. Nullable money columns use decimal.NullDecimal, where NULL
// reads back as an unknown amount.
package models
