package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
)

// ItemRepository defines the data access contract for catalog items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ItemRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, item *model.Item) error
	FindByCode(ctx context.Context, code string) (*model.Item, error)
	// FindByCodeUnscoped also returns soft-deleted items, for historical joins.
	FindByCodeUnscoped(ctx context.Context, code string) (*model.Item, error)
	// FindByCodeForUpdateTx takes an exclusive row lock (SELECT ... FOR UPDATE)
	// held until the enclosing transaction commits or rolls back.
	FindByCodeForUpdateTx(ctx context.Context, tx *gorm.DB, code string) (*model.Item, error)
	// AdjustStockTx applies delta to the item's stock, guarded so the result
	// can never go negative. Returns the number of rows affected: zero means
	// the guard rejected the change (or the item vanished).
	AdjustStockTx(ctx context.Context, tx *gorm.DB, code string, delta int) (int64, error)
	List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error)
	Update(ctx context.Context, item *model.Item) error
	SoftDelete(ctx context.Context, code string) error
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) DB() *gorm.DB { return r.db }

func (r *itemRepo) CreateTx(ctx context.Context, tx *gorm.DB, item *model.Item) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Preload("Category").Where("code = ?", code).First(&item).Error
	return &item, err
}

func (r *itemRepo) FindByCodeUnscoped(ctx context.Context, code string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Unscoped().Where("code = ?", code).First(&item).Error
	return &item, err
}

func (r *itemRepo) FindByCodeForUpdateTx(ctx context.Context, tx *gorm.DB, code string) (*model.Item, error) {
	var item model.Item
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&item).Error
	return &item, err
}

func (r *itemRepo) AdjustStockTx(ctx context.Context, tx *gorm.DB, code string, delta int) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.Item{}).
		Where("code = ? AND stock + ? >= 0", code, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *itemRepo) List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Item{})
	if filter.Search != "" {
		q = q.Where("code ILIKE ? OR name ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Category").Order("code ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) SoftDelete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Item{}).Error
}
