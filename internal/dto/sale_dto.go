package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	ItemCode  string          `json:"item_code"  validate:"required,max=20"`
	Qty       int             `json:"qty"        validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

type CreateSaleRequest struct {
	// InvoiceID is generated server-side when empty; a supplied value must be
	// unique across all sales.
	InvoiceID    string     `json:"invoice_id"    validate:"omitempty,max=20"`
	Timestamp    *time.Time `json:"timestamp"`
	CustomerCode *string    `json:"customer_code" validate:"omitempty,max=20"`
	// CustomerEmail: optional — when present, the email worker mails the PDF receipt.
	CustomerEmail *string           `json:"customer_email" validate:"omitempty,email"`
	Discount      decimal.Decimal   `json:"discount"       validate:"min=0"`
	Tax           decimal.Decimal   `json:"tax"            validate:"min=0"`
	Items         []SaleLineRequest `json:"items"          validate:"required,min=1,dive"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
	CashierID uint   `form:"cashier_id"`
	Search    string `form:"search"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=15" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleLineResponse struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	InvoiceID    string             `json:"invoice_id"`
	Timestamp    string             `json:"timestamp"`
	CustomerCode *string            `json:"customer_code"`
	CustomerName string             `json:"customer_name,omitempty"`
	CashierID    uint               `json:"cashier_id"`
	CashierName  string             `json:"cashier_name,omitempty"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Discount     decimal.Decimal    `json:"discount"`
	Tax          decimal.Decimal    `json:"tax"`
	GrandTotal   decimal.Decimal    `json:"grand_total"`
	Items        []SaleLineResponse `json:"items"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
