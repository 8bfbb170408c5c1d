package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
)

type SaleRepository interface {
	// CreateTx persists the sale header and its line items inside the given
	// transaction. A primary-key conflict on a caller-supplied invoice id
	// surfaces as a unique violation.
	CreateTx(ctx context.Context, tx *gorm.DB, sale *model.Sale) error
	FindByInvoiceID(ctx context.Context, invoiceID string) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, sale *model.Sale) error {
	return tx.WithContext(ctx).Create(sale).Error
}

func (r *saleRepo) FindByInvoiceID(ctx context.Context, invoiceID string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		// the referenced item may have been soft-deleted since the sale
		Preload("LineItems.Item", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Customer").
		Preload("Cashier").
		Where("invoice_id = ?", invoiceID).
		First(&sale).Error
	return &sale, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.StartDate != "" {
		q = q.Where("DATE(timestamp) >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("DATE(timestamp) <= ?", filter.EndDate)
	}
	if filter.CashierID != 0 {
		q = q.Where("cashier_id = ?", filter.CashierID)
	}
	if filter.Search != "" {
		q = q.Where("invoice_id ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("LineItems").Preload("Customer").Preload("Cashier").
		Order("timestamp DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&sales).Error
	return sales, total, err
}
