package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
)

// StockMovement records every stock change on an item, written inside the
// same transaction as the change itself.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemCode    string    `gorm:"size:20;not null;index"`
	Type        string    `gorm:"not null"`
	Qty         int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	ReferenceID *string `gorm:"size:20"` // sale invoice id if applicable
	CreatedAt   time.Time

	Item *Item `gorm:"foreignKey:ItemCode;references:Code"`
}

func (StockMovement) TableName() string { return "stock_movements" }
