package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
	"github.com/irurudev/nexus-pos/internal/worker"
)

// InsufficientStockError reports that a reservation asked for more units than
// the locked row holds. Available is the stock observed under the lock; for
// an unknown or deleted code it is 0 (the reservation fails closed).
type InsufficientStockError struct {
	ItemCode  string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available: %d)", e.ItemCode, e.Available)
}

// ErrItemNotFound reports a stock operation against an unknown or deleted
// item. Returned by manual adjustments; reservations fail closed instead.
var ErrItemNotFound = errors.New("item not found")

// InventoryService owns every stock mutation. Sales reserve and deduct
// inside the caller's transaction; manual adjustments run their own.
// Each mutation writes a stock movement row in the same transaction.
type InventoryService interface {
	// ReserveTx locks the item row (SELECT ... FOR UPDATE) and verifies qty
	// units are available. The lock is held until the enclosing transaction
	// ends. Returns *InsufficientStockError when the row holds fewer units;
	// a code that does not resolve counts as 0 available.
	ReserveTx(ctx context.Context, tx *gorm.DB, code string, qty int) (*model.Item, error)
	// DeductTx decrements a previously reserved item and records the sale
	// movement. item must be the row ReserveTx returned, in the same tx.
	DeductTx(ctx context.Context, tx *gorm.DB, item *model.Item, qty int, invoiceID string) error
	// AdjustStock applies a signed manual delta in its own transaction.
	AdjustStock(ctx context.Context, userID uint, code string, req dto.AdjustStockRequest) (*dto.ItemResponse, error)
	ListMovements(ctx context.Context, code string, page, limit int) (*dto.StockMovementListResponse, error)
}

type inventoryService struct {
	items      repository.ItemRepository
	movements  repository.StockMovementRepository
	dispatcher *worker.Dispatcher
}

func NewInventoryService(
	items repository.ItemRepository,
	movements repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) InventoryService {
	return &inventoryService{items: items, movements: movements, dispatcher: dispatcher}
}

func (s *inventoryService) ReserveTx(ctx context.Context, tx *gorm.DB, code string, qty int) (*model.Item, error) {
	item, err := s.items.FindByCodeForUpdateTx(ctx, tx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &InsufficientStockError{ItemCode: code, Available: 0}
		}
		return nil, repository.TranslateError(err)
	}
	if item.Stock < qty {
		return nil, &InsufficientStockError{
			ItemCode:  item.Code,
			Available: item.Stock,
		}
	}
	return item, nil
}

func (s *inventoryService) DeductTx(ctx context.Context, tx *gorm.DB, item *model.Item, qty int, invoiceID string) error {
	rows, err := s.items.AdjustStockTx(ctx, tx, item.Code, -qty)
	if err != nil {
		return repository.TranslateError(err)
	}
	// The row is locked by ReserveTx, so a rejected guard means the caller
	// skipped reservation or the item vanished mid-transaction.
	if rows == 0 {
		return apierror.NewStorage(fmt.Errorf("stock guard rejected deduction of %d from %s", qty, item.Code))
	}

	ref := invoiceID
	mov := &model.StockMovement{
		ItemCode:    item.Code,
		Type:        model.MovementSale,
		Qty:         -qty,
		StockBefore: item.Stock,
		StockAfter:  item.Stock - qty,
		Reason:      fmt.Sprintf("Sale %s", invoiceID),
		ReferenceID: &ref,
	}
	if err := s.movements.CreateTx(ctx, tx, mov); err != nil {
		return repository.TranslateError(err)
	}
	return nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, userID uint, code string, req dto.AdjustStockRequest) (*dto.ItemResponse, error) {
	var adjusted model.Item

	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		item, err := s.items.FindByCodeForUpdateTx(ctx, tx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return repository.TranslateError(err)
		}
		if item.Stock+req.Delta < 0 {
			return apierror.FieldError("delta",
				"adjustment would take stock below zero (current: %d)", item.Stock)
		}

		rows, err := s.items.AdjustStockTx(ctx, tx, code, req.Delta)
		if err != nil {
			return repository.TranslateError(err)
		}
		if rows == 0 {
			return apierror.NewStorage(fmt.Errorf("stock guard rejected adjustment of %d on %s", req.Delta, code))
		}

		mov := &model.StockMovement{
			ItemCode:    item.Code,
			Type:        model.MovementAdjustment,
			Qty:         req.Delta,
			StockBefore: item.Stock,
			StockAfter:  item.Stock + req.Delta,
			Reason:      req.Reason,
		}
		if err := s.movements.CreateTx(ctx, tx, mov); err != nil {
			return repository.TranslateError(err)
		}

		adjusted = *item
		adjusted.Stock = item.Stock + req.Delta
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		uid := userID
		oldVals, _ := json.Marshal(map[string]int{"stock": adjusted.Stock - req.Delta})
		newVals, _ := json.Marshal(map[string]int{"stock": adjusted.Stock})
		_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditPayload{
			UserID:     &uid,
			Action:     "updated",
			EntityType: "item",
			EntityID:   adjusted.Code,
			OldValues:  oldVals,
			NewValues:  newVals,
		})
	}

	resp := itemToResponse(&adjusted)
	return &resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, code string, page, limit int) (*dto.StockMovementListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	movements, total, err := s.movements.ListByItem(ctx, code, page, limit)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	data := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		data = append(data, dto.StockMovementResponse{
			ID:          m.ID.String(),
			ItemCode:    m.ItemCode,
			Type:        m.Type,
			Qty:         m.Qty,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			ReferenceID: m.ReferenceID,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.StockMovementListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}
