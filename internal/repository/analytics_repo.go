package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesSummaryRow aggregates committed sales over a date range. Profit is
// derived from line snapshots against the item's current purchase price.
type SalesSummaryRow struct {
	TotalRevenue     decimal.Decimal
	TotalDiscount    decimal.Decimal
	TotalTax         decimal.Decimal
	TotalProfit      decimal.Decimal
	TransactionCount int64
}

type CategorySalesRow struct {
	CategoryID   uint
	CategoryName string
	TotalQty     int64
	TotalSales   decimal.Decimal
}

type CashierPerformanceRow struct {
	UserID           uint
	Name             string
	Username         string
	Month            int
	TotalSales       decimal.Decimal
	TransactionCount int64
}

// AnalyticsRepository serves the reporting queries. These are read-only
// aggregates over committed data; no locking, no transactions.
type AnalyticsRepository interface {
	SalesSummary(ctx context.Context, startDate, endDate string) (*SalesSummaryRow, error)
	TopCategories(ctx context.Context, startDate, endDate string, limit int) ([]CategorySalesRow, error)
	CashierPerformance(ctx context.Context, startDate, endDate string) ([]CashierPerformanceRow, error)
}

type analyticsRepo struct{ db *gorm.DB }

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository { return &analyticsRepo{db: db} }

const salesSummarySQL = `
SELECT
    COALESCE(SUM(s.grand_total), 0) AS total_revenue,
    COALESCE(SUM(s.discount), 0)    AS total_discount,
    COALESCE(SUM(s.tax), 0)         AS total_tax,
    COUNT(*)                        AS transaction_count
FROM sales s
WHERE s.deleted_at IS NULL
  AND DATE(s.timestamp) BETWEEN ? AND ?`

const salesProfitSQL = `
SELECT COALESCE(SUM((li.unit_price - i.purchase_price) * li.qty), 0) AS total_profit
FROM sale_line_items li
JOIN sales s ON s.invoice_id = li.sale_invoice_id
JOIN items i ON i.code = li.item_code
WHERE s.deleted_at IS NULL
  AND li.deleted_at IS NULL
  AND DATE(s.timestamp) BETWEEN ? AND ?`

func (r *analyticsRepo) SalesSummary(ctx context.Context, startDate, endDate string) (*SalesSummaryRow, error) {
	var row SalesSummaryRow
	if err := r.db.WithContext(ctx).Raw(salesSummarySQL, startDate, endDate).Scan(&row).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Raw(salesProfitSQL, startDate, endDate).Scan(&row.TotalProfit).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

const topCategoriesSQL = `
SELECT
    c.id                        AS category_id,
    c.name                      AS category_name,
    COALESCE(SUM(li.qty), 0)    AS total_qty,
    COALESCE(SUM(li.line_total), 0) AS total_sales
FROM sale_line_items li
JOIN sales s ON s.invoice_id = li.sale_invoice_id
JOIN items i ON i.code = li.item_code
JOIN categories c ON c.id = i.category_id
WHERE s.deleted_at IS NULL
  AND li.deleted_at IS NULL
  AND DATE(s.timestamp) BETWEEN ? AND ?
GROUP BY c.id, c.name
ORDER BY total_sales DESC
LIMIT ?`

func (r *analyticsRepo) TopCategories(ctx context.Context, startDate, endDate string, limit int) ([]CategorySalesRow, error) {
	var rows []CategorySalesRow
	err := r.db.WithContext(ctx).Raw(topCategoriesSQL, startDate, endDate, limit).Scan(&rows).Error
	return rows, err
}

const cashierPerformanceSQL = `
SELECT
    u.id                            AS user_id,
    u.name                          AS name,
    u.username                      AS username,
    EXTRACT(MONTH FROM s.timestamp)::int AS month,
    COALESCE(SUM(s.grand_total), 0) AS total_sales,
    COUNT(*)                        AS transaction_count
FROM sales s
JOIN users u ON u.id = s.cashier_id
WHERE s.deleted_at IS NULL
  AND DATE(s.timestamp) BETWEEN ? AND ?
GROUP BY u.id, u.name, u.username, month
ORDER BY month ASC, total_sales DESC`

func (r *analyticsRepo) CashierPerformance(ctx context.Context, startDate, endDate string) ([]CashierPerformanceRow, error) {
	var rows []CashierPerformanceRow
	err := r.db.WithContext(ctx).Raw(cashierPerformanceSQL, startDate, endDate).Scan(&rows).Error
	return rows, err
}
