package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/service"
)

func buildInventorySvc() (service.InventoryService, *stubItemRepo, *stubMovementRepo) {
	itemRepo := newStubItemRepo()
	movementRepo := &stubMovementRepo{}
	return service.NewInventoryService(itemRepo, movementRepo, nil), itemRepo, movementRepo
}

func TestReserveTx_Shortage(t *testing.T) {
	svc, itemRepo, _ := buildInventorySvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 2)

	_, err := svc.ReserveTx(context.Background(), nil, "BRG001", 5)
	var short *service.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "BRG001", short.ItemCode)
	assert.Equal(t, 2, short.Available)
}

// Unknown codes fail closed: the reservation reports zero available stock
// instead of a distinct not-found error.
func TestReserveTx_UnknownItemFailsClosed(t *testing.T) {
	svc, _, _ := buildInventorySvc()
	_, err := svc.ReserveTx(context.Background(), nil, "BRG404", 1)
	var short *service.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "BRG404", short.ItemCode)
	assert.Equal(t, 0, short.Available)
}

func TestReserveTx_ExactStock(t *testing.T) {
	svc, itemRepo, _ := buildInventorySvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 5)

	item, err := svc.ReserveTx(context.Background(), nil, "BRG001", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Stock)
}

func TestAdjustStock_Increase(t *testing.T) {
	svc, itemRepo, movementRepo := buildInventorySvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 5)

	resp, err := svc.AdjustStock(context.Background(), 1, "BRG001", dto.AdjustStockRequest{
		Delta:  10,
		Reason: "supplier delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.Stock)
	assert.Equal(t, 15, itemRepo.items["BRG001"].Stock)

	require.Len(t, movementRepo.movements, 1)
	mov := movementRepo.movements[0]
	assert.Equal(t, model.MovementAdjustment, mov.Type)
	assert.Equal(t, 10, mov.Qty)
	assert.Equal(t, 5, mov.StockBefore)
	assert.Equal(t, 15, mov.StockAfter)
	assert.Equal(t, "supplier delivery", mov.Reason)
	assert.Nil(t, mov.ReferenceID)
}

func TestAdjustStock_BelowZeroRejected(t *testing.T) {
	svc, itemRepo, movementRepo := buildInventorySvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 3)

	_, err := svc.AdjustStock(context.Background(), 1, "BRG001", dto.AdjustStockRequest{
		Delta:  -5,
		Reason: "damaged goods",
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["delta"], "below zero")

	assert.Equal(t, 3, itemRepo.items["BRG001"].Stock)
	assert.Empty(t, movementRepo.movements)
}

func TestAdjustStock_UnknownItem(t *testing.T) {
	svc, _, _ := buildInventorySvc()
	_, err := svc.AdjustStock(context.Background(), 1, "BRG404", dto.AdjustStockRequest{
		Delta:  5,
		Reason: "supplier delivery",
	})
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestAdjustStock_ToExactlyZero(t *testing.T) {
	svc, itemRepo, _ := buildInventorySvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 3)

	resp, err := svc.AdjustStock(context.Background(), 1, "BRG001", dto.AdjustStockRequest{
		Delta:  -3,
		Reason: "stock write-off",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stock)
}

func TestListMovements(t *testing.T) {
	svc, itemRepo, _ := buildInventorySvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 10)

	for _, delta := range []int{5, -2, 3} {
		_, err := svc.AdjustStock(context.Background(), 1, "BRG001", dto.AdjustStockRequest{
			Delta:  delta,
			Reason: "cycle count",
		})
		require.NoError(t, err)
	}

	resp, err := svc.ListMovements(context.Background(), "BRG001", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Data, 3)
}
