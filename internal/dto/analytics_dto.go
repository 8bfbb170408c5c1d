package dto

import "github.com/shopspring/decimal"

// AnalyticsRange is bound from the query string of the analytics endpoints.
type AnalyticsRange struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD; empty = first of month
	EndDate   string `form:"end_date"`   // YYYY-MM-DD; empty = today
	Limit     int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type AnalyticsSummary struct {
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	TotalProfit        decimal.Decimal `json:"total_profit"`
	TransactionCount   int64           `json:"transaction_count"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
}

type CategorySales struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalQty     int64           `json:"total_qty"`
	TotalSales   decimal.Decimal `json:"total_sales"`
}

type CashierPerformance struct {
	UserID           uint            `json:"user_id"`
	Name             string          `json:"name"`
	Username         string          `json:"username"`
	Month            int             `json:"month"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int64           `json:"transaction_count"`
}
