// Package models contains the database models for the seed catalog,
// configured to work using GORM as the ORM.
package models

import (
	"time"
)

// SeedCounterparty is one row of the demo collection loaded into new sessions.
// Position keeps the insertion order of the catalog.
type SeedCounterparty struct {
	ID          string `gorm:"primaryKey;size:64"`
	Position    int    `gorm:"index;not null"`
	CompanyName string `gorm:"size:512;not null"`
	TaxID       string `gorm:"column:tax_id;size:32;index;not null"`
	Status      string `gorm:"size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default pluralized name.
func (SeedCounterparty) TableName() string {
	return "seed_counterparties"
}
