package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/repository"
)

type AnalyticsService interface {
	Summary(ctx context.Context, rng dto.AnalyticsRange) (*dto.AnalyticsSummary, error)
	TopCategories(ctx context.Context, rng dto.AnalyticsRange) ([]dto.CategorySales, error)
	CashierPerformance(ctx context.Context, rng dto.AnalyticsRange) ([]dto.CashierPerformance, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

// normalizeRange fills in the default window: first of the current month
// through today.
func normalizeRange(rng dto.AnalyticsRange) (string, string, int) {
	now := time.Now()
	start := rng.StartDate
	if start == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	end := rng.EndDate
	if end == "" {
		end = now.Format("2006-01-02")
	}
	limit := rng.Limit
	if limit < 1 {
		limit = 10
	}
	return start, end, limit
}

func (s *analyticsService) Summary(ctx context.Context, rng dto.AnalyticsRange) (*dto.AnalyticsSummary, error) {
	start, end, _ := normalizeRange(rng)
	row, err := s.repo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, repository.TranslateError(err)
	}

	avg := decimal.Zero
	if row.TransactionCount > 0 {
		avg = row.TotalRevenue.Div(decimal.NewFromInt(row.TransactionCount)).Round(2)
	}
	return &dto.AnalyticsSummary{
		StartDate:          start,
		EndDate:            end,
		TotalRevenue:       row.TotalRevenue,
		TotalDiscount:      row.TotalDiscount,
		TotalTax:           row.TotalTax,
		TotalProfit:        row.TotalProfit,
		TransactionCount:   row.TransactionCount,
		AverageTransaction: avg,
	}, nil
}

func (s *analyticsService) TopCategories(ctx context.Context, rng dto.AnalyticsRange) ([]dto.CategorySales, error) {
	start, end, limit := normalizeRange(rng)
	rows, err := s.repo.TopCategories(ctx, start, end, limit)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	resp := make([]dto.CategorySales, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.CategorySales{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			TotalQty:     r.TotalQty,
			TotalSales:   r.TotalSales,
		})
	}
	return resp, nil
}

func (s *analyticsService) CashierPerformance(ctx context.Context, rng dto.AnalyticsRange) ([]dto.CashierPerformance, error) {
	start, end, _ := normalizeRange(rng)
	rows, err := s.repo.CashierPerformance(ctx, start, end)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	resp := make([]dto.CashierPerformance, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.CashierPerformance{
			UserID:           r.UserID,
			Name:             r.Name,
			Username:         r.Username,
			Month:            r.Month,
			TotalSales:       r.TotalSales,
			TransactionCount: r.TransactionCount,
		})
	}
	return resp, nil
}
