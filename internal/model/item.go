package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a catalog product keyed by its human-readable code (e.g. "BRG003").
// Items are soft-deleted so historical sale line items can still join on the
// code; the line item additionally snapshots name and unit price at sale time.
type Item struct {
	Code          string          `gorm:"primaryKey;size:20"`
	CategoryID    uint            `gorm:"not null;index"`
	Name          string          `gorm:"not null;index"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	// Stock is only decremented through a committed sale or an explicit
	// adjustment; the storage layer guards it from ever going negative.
	Stock     int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Item) TableName() string { return "items" }
