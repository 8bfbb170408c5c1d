package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/model"
)

type StockMovementRepository interface {
	// CreateTx writes a movement row inside the same transaction as the stock
	// change it records.
	CreateTx(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error
	ListByItem(ctx context.Context, itemCode string, page, limit int) ([]model.StockMovement, int64, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) ListByItem(ctx context.Context, itemCode string, page, limit int) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Where("item_code = ?", itemCode)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&movements).Error
	return movements, total, err
}
