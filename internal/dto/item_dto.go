package dto

import "github.com/shopspring/decimal"

type CreateItemRequest struct {
	// Code is generated ("BRG003") when empty.
	Code          string          `json:"code"           validate:"omitempty,max=20"`
	CategoryID    uint            `json:"category_id"    validate:"required"`
	Name          string          `json:"name"           validate:"required,max=100"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
	Stock         int             `json:"stock"          validate:"min=0"`
}

type UpdateItemRequest struct {
	CategoryID    *uint            `json:"category_id"`
	Name          *string          `json:"name"           validate:"omitempty,max=100"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

// AdjustStockRequest applies a signed delta to an item's stock; negative
// deltas may not take the stock below zero.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

type ItemFilter struct {
	Search     string `form:"search"`
	CategoryID uint   `form:"category_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=15" validate:"min=1,max=200"`
}

type ItemResponse struct {
	Code          string          `json:"code"`
	CategoryID    uint            `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ItemCode    string  `json:"item_code"`
	Type        string  `json:"type"`
	Qty         int     `json:"qty"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
