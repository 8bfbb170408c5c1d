package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
	"github.com/irurudev/nexus-pos/internal/service"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubSaleRepo is an in-memory SaleRepository. DB() returns nil so services
// run their transaction body directly against the stubs.
type stubSaleRepo struct {
	sales map[string]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[string]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, sale *model.Sale) error {
	if _, exists := r.sales[sale.InvoiceID]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "sales_pkey"}
	}
	r.sales[sale.InvoiceID] = sale
	return nil
}

func (r *stubSaleRepo) FindByInvoiceID(_ context.Context, invoiceID string) (*model.Sale, error) {
	sale, ok := r.sales[invoiceID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sale, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	sales := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		sales = append(sales, *s)
	}
	return sales, int64(len(sales)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubSequenceRepo issues in-memory counters, one per name.
type stubSequenceRepo struct {
	counters map[string]int64
}

func newStubSequenceRepo() *stubSequenceRepo {
	return &stubSequenceRepo{counters: make(map[string]int64)}
}

func (r *stubSequenceRepo) Next(_ context.Context, name string) (int64, error) {
	r.counters[name]++
	return r.counters[name], nil
}

func (r *stubSequenceRepo) NextTx(ctx context.Context, _ *gorm.DB, name string) (int64, error) {
	return r.Next(ctx, name)
}

var _ repository.SequenceRepository = (*stubSequenceRepo)(nil)

// stubItemRepo is an in-memory ItemRepository with a working stock guard.
type stubItemRepo struct {
	items map[string]*model.Item
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[string]*model.Item)}
}

func (r *stubItemRepo) CreateTx(_ context.Context, _ *gorm.DB, item *model.Item) error {
	if _, exists := r.items[item.Code]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "items_pkey"}
	}
	r.items[item.Code] = item
	return nil
}

func (r *stubItemRepo) FindByCode(_ context.Context, code string) (*model.Item, error) {
	item, ok := r.items[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubItemRepo) FindByCodeUnscoped(ctx context.Context, code string) (*model.Item, error) {
	return r.FindByCode(ctx, code)
}

func (r *stubItemRepo) FindByCodeForUpdateTx(ctx context.Context, _ *gorm.DB, code string) (*model.Item, error) {
	item, err := r.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	copied := *item
	return &copied, nil
}

func (r *stubItemRepo) AdjustStockTx(_ context.Context, _ *gorm.DB, code string, delta int) (int64, error) {
	item, ok := r.items[code]
	if !ok || item.Stock+delta < 0 {
		return 0, nil
	}
	item.Stock += delta
	return 1, nil
}

func (r *stubItemRepo) List(_ context.Context, _ dto.ItemFilter) ([]model.Item, int64, error) {
	return nil, 0, nil
}

func (r *stubItemRepo) Update(_ context.Context, item *model.Item) error {
	r.items[item.Code] = item
	return nil
}

func (r *stubItemRepo) SoftDelete(_ context.Context, code string) error {
	delete(r.items, code)
	return nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// stubMovementRepo captures written movement rows for assertion.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByItem(_ context.Context, code string, _, _ int) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ItemCode == code {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubCustomerRepo holds customers by code.
type stubCustomerRepo struct {
	customers map[string]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (r *stubCustomerRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.Customer) error {
	if _, exists := r.customers[c.Code]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "customers_pkey"}
	}
	r.customers[c.Code] = c
	return nil
}

func (r *stubCustomerRepo) FindByCode(_ context.Context, code string) (*model.Customer, error) {
	c, ok := r.customers[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	return nil, 0, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.Code] = c
	return nil
}

func (r *stubCustomerRepo) SoftDelete(_ context.Context, code string) error {
	delete(r.customers, code)
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Fixtures ──────────────────────────────────────────────────────────────────

func seedItem(repo *stubItemRepo, code, name string, price float64, stock int) *model.Item {
	item := &model.Item{
		Code:          code,
		CategoryID:    1,
		Name:          name,
		PurchasePrice: decimal.NewFromFloat(price * 0.7),
		SalePrice:     decimal.NewFromFloat(price),
		Stock:         stock,
	}
	repo.items[code] = item
	return item
}

func buildSaleSvc() (service.SaleService, *stubSaleRepo, *stubItemRepo, *stubCustomerRepo, *stubMovementRepo) {
	saleRepo := newStubSaleRepo()
	itemRepo := newStubItemRepo()
	customerRepo := newStubCustomerRepo()
	movementRepo := &stubMovementRepo{}
	inventorySvc := service.NewInventoryService(itemRepo, movementRepo, nil)

	svc := service.NewSaleService(saleRepo, newStubSequenceRepo(), customerRepo, inventorySvc, nil)
	return svc, saleRepo, itemRepo, customerRepo, movementRepo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateSale_Success(t *testing.T) {
	svc, saleRepo, itemRepo, _, movementRepo := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)
	seedItem(itemRepo, "BRG002", "Gadget", 25.50, 8)

	resp, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Discount: decimal.NewFromFloat(5),
		Tax:      decimal.NewFromFloat(2.55),
		Items: []dto.SaleLineRequest{
			{ItemCode: "BRG001", Qty: 3},
			{ItemCode: "BRG002", Qty: 2},
		},
	})
	require.NoError(t, err)

	// Subtotal: 3*10.00 + 2*25.50 = 81.00; grand: 81 - 5 + 2.55 = 78.55
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(81.00)), "subtotal = %s", resp.Subtotal)
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromFloat(78.55)), "grand total = %s", resp.GrandTotal)
	assert.Len(t, resp.Items, 2)

	// Stock decremented
	assert.Equal(t, 47, itemRepo.items["BRG001"].Stock)
	assert.Equal(t, 6, itemRepo.items["BRG002"].Stock)

	// One movement per line, negative qty, referencing the invoice
	require.Len(t, movementRepo.movements, 2)
	assert.Equal(t, -3, movementRepo.movements[0].Qty)
	assert.Equal(t, model.MovementSale, movementRepo.movements[0].Type)
	require.NotNil(t, movementRepo.movements[0].ReferenceID)
	assert.Equal(t, resp.InvoiceID, *movementRepo.movements[0].ReferenceID)

	// Sale persisted under its invoice id
	_, ok := saleRepo.sales[resp.InvoiceID]
	assert.True(t, ok)
}

func TestCreateSale_GeneratedInvoiceID(t *testing.T) {
	svc, _, itemRepo, _, _ := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)

	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	want := []string{"INV20250101-0001", "INV20250101-0002", "INV20250101-0003"}
	for _, expected := range want {
		resp, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
			Timestamp: &ts,
			Items:     []dto.SaleLineRequest{{ItemCode: "BRG001", Qty: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, expected, resp.InvoiceID)
	}
}

func TestCreateSale_InsufficientStock_FailFast(t *testing.T) {
	svc, saleRepo, itemRepo, _, movementRepo := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)
	seedItem(itemRepo, "BRG002", "Gadget", 25.50, 1)

	_, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ItemCode: "BRG001", Qty: 3},
			{ItemCode: "BRG002", Qty: 5}, // only 1 available
		},
	})
	require.Error(t, err)

	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "insufficient stock for BRG002 (available: 1)", vErr.Fields["items.1.qty"])

	// Nothing persisted, no stock touched, no movements
	assert.Empty(t, saleRepo.sales)
	assert.Equal(t, 50, itemRepo.items["BRG001"].Stock)
	assert.Equal(t, 1, itemRepo.items["BRG002"].Stock)
	assert.Empty(t, movementRepo.movements)
}

// A code repeated across lines draws down a single locked row; the combined
// quantity must respect it, and the later line carries the shortage error.
func TestCreateSale_RepeatedLines_CombinedShortage(t *testing.T) {
	svc, saleRepo, itemRepo, _, movementRepo := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 5)

	_, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ItemCode: "BRG001", Qty: 3},
			{ItemCode: "BRG001", Qty: 3}, // only 2 left after line 0
		},
	})
	require.Error(t, err)

	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "insufficient stock for BRG001 (available: 2)", vErr.Fields["items.1.qty"])

	assert.Empty(t, saleRepo.sales)
	assert.Equal(t, 5, itemRepo.items["BRG001"].Stock)
	assert.Empty(t, movementRepo.movements)
}

// When the combined quantity fits, each duplicate line's movement row must
// chain off the previous one rather than repeat the initial read.
func TestCreateSale_RepeatedLines_MovementLedger(t *testing.T) {
	svc, _, itemRepo, _, movementRepo := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 10)

	resp, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ItemCode: "BRG001", Qty: 3},
			{ItemCode: "BRG001", Qty: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, itemRepo.items["BRG001"].Stock)

	require.Len(t, movementRepo.movements, 2)
	assert.Equal(t, 10, movementRepo.movements[0].StockBefore)
	assert.Equal(t, 7, movementRepo.movements[0].StockAfter)
	assert.Equal(t, 7, movementRepo.movements[1].StockBefore)
	assert.Equal(t, 4, movementRepo.movements[1].StockAfter)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(60)), "subtotal = %s", resp.Subtotal)
}

// An unknown or deleted code counts as zero available stock, so the caller
// sees the same per-line shortage shape as any other out-of-stock line.
func TestCreateSale_UnknownItemFailsClosed(t *testing.T) {
	svc, saleRepo, itemRepo, _, _ := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)

	_, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ItemCode: "BRG001", Qty: 1},
			{ItemCode: "BRG999", Qty: 1},
		},
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "insufficient stock for BRG999 (available: 0)", vErr.Fields["items.1.qty"])
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_DuplicateInvoiceID(t *testing.T) {
	svc, _, itemRepo, _, _ := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)

	req := dto.CreateSaleRequest{
		InvoiceID: "INV20250101-0042",
		Items:     []dto.SaleLineRequest{{ItemCode: "BRG001", Qty: 1}},
	}
	_, err := svc.CreateSale(context.Background(), 1, req)
	require.NoError(t, err)

	_, err = svc.CreateSale(context.Background(), 1, req)
	assert.ErrorIs(t, err, apierror.ErrDuplicateInvoiceID)
}

func TestCreateSale_SnapshotsNameAndPrice(t *testing.T) {
	svc, saleRepo, itemRepo, _, _ := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Original Name", 10.00, 50)

	resp, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemCode: "BRG001", Qty: 2}},
	})
	require.NoError(t, err)

	// Mutate the catalog after the sale
	itemRepo.items["BRG001"].Name = "Renamed"
	itemRepo.items["BRG001"].SalePrice = decimal.NewFromFloat(99)

	sale := saleRepo.sales[resp.InvoiceID]
	require.Len(t, sale.LineItems, 1)
	assert.Equal(t, "Original Name", sale.LineItems[0].ItemName)
	assert.True(t, sale.LineItems[0].UnitPrice.Equal(decimal.NewFromFloat(10.00)))
	assert.True(t, sale.LineItems[0].LineTotal.Equal(decimal.NewFromFloat(20.00)))
}

func TestCreateSale_ExplicitUnitPrice(t *testing.T) {
	svc, _, itemRepo, _, _ := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)

	resp, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ItemCode: "BRG001", Qty: 2, UnitPrice: decimal.NewFromFloat(8.50)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(17.00)), "subtotal = %s", resp.Subtotal)
}

func TestCreateSale_CustomerNotFound(t *testing.T) {
	svc, _, itemRepo, _, _ := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)

	code := "PGN999"
	_, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		CustomerCode: &code,
		Items:        []dto.SaleLineRequest{{ItemCode: "BRG001", Qty: 1}},
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["customer_code"], "PGN999")
}

func TestCreateSale_WithCustomer(t *testing.T) {
	svc, saleRepo, itemRepo, customerRepo, _ := buildSaleSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 50)
	customerRepo.customers["PGN001"] = &model.Customer{
		Code: "PGN001", Name: "Jane", Region: "North", Gender: model.GenderFemale,
	}

	code := "PGN001"
	resp, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		CustomerCode: &code,
		Items:        []dto.SaleLineRequest{{ItemCode: "BRG001", Qty: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CustomerCode)
	assert.Equal(t, "PGN001", *resp.CustomerCode)
	assert.NotNil(t, saleRepo.sales[resp.InvoiceID].CustomerCode)
}

func TestGetSale_NotFound(t *testing.T) {
	svc, _, _, _, _ := buildSaleSvc()
	_, err := svc.GetSale(context.Background(), "INV20990101-0001")
	var vErr *apierror.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCreateSale_ManyLines(t *testing.T) {
	svc, _, itemRepo, _, movementRepo := buildSaleSvc()
	for i := 1; i <= 10; i++ {
		seedItem(itemRepo, fmt.Sprintf("BRG%03d", i), fmt.Sprintf("Item %d", i), float64(i), 100)
	}

	lines := make([]dto.SaleLineRequest, 0, 10)
	for i := 1; i <= 10; i++ {
		lines = append(lines, dto.SaleLineRequest{ItemCode: fmt.Sprintf("BRG%03d", i), Qty: i})
	}
	resp, err := svc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{Items: lines})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 10)
	assert.Len(t, movementRepo.movements, 10)
	// Subtotal: sum of i*i for i=1..10 = 385
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(385)), "subtotal = %s", resp.Subtotal)
}
