package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a committed transaction header, keyed by its invoice id
// (e.g. "INV20250101-0007"). A sale is created exactly once inside the
// commit transaction and is immutable thereafter — there is no update or
// delete path for a committed sale.
//
// GrandTotal is always derived: Subtotal - Discount + Tax, where Subtotal
// equals the sum of the line items' LineTotal.
type Sale struct {
	InvoiceID    string          `gorm:"primaryKey;size:20"`
	Timestamp    time.Time       `gorm:"not null;index"`
	CustomerCode *string         `gorm:"size:20;index"`
	CashierID    uint            `gorm:"not null;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Discount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Tax          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	GrandTotal   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	Customer  *Customer      `gorm:"foreignKey:CustomerCode;references:Code"`
	Cashier   *User          `gorm:"foreignKey:CashierID"`
	LineItems []SaleLineItem `gorm:"foreignKey:SaleInvoiceID;references:InvoiceID"`
}

func (Sale) TableName() string { return "sales" }

// SaleLineItem is one (item, quantity, price) entry within a sale, created in
// bulk alongside the parent inside the same transaction.
//
// ItemName and UnitPrice are snapshot fields captured at sale time so the
// historical record survives later item renames, price changes and deletion.
type SaleLineItem struct {
	ID            uint            `gorm:"primaryKey"`
	SaleInvoiceID string          `gorm:"size:20;not null;index"`
	ItemCode      string          `gorm:"size:20;not null;index"`
	ItemName      string          `gorm:"not null"`
	Qty           int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Item *Item `gorm:"foreignKey:ItemCode;references:Code"`
}

func (SaleLineItem) TableName() string { return "sale_line_items" }
