package service_test

import (
	"context"
	"testing"

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

type stubCategoryRepo struct {
	categories map[uint]*model.Category
	nextID     uint
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uint]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.nextID++
	c.ID = r.nextID
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uint) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func buildItemSvc() (service.ItemService, *stubItemRepo, *stubCategoryRepo) {
	itemRepo := newStubItemRepo()
	categoryRepo := newStubCategoryRepo()
	categoryRepo.categories[1] = &model.Category{ID: 1, Name: "General"}
	categoryRepo.nextID = 1
	svc := service.NewItemService(itemRepo, categoryRepo, newStubSequenceRepo(), nil)
	return svc, itemRepo, categoryRepo
}

func TestItemCreate_GeneratesCode(t *testing.T) {
	svc, _, _ := buildItemSvc()

	for _, expected := range []string{"BRG001", "BRG002", "BRG003"} {
		resp, err := svc.Create(context.Background(), 1, dto.CreateItemRequest{
			CategoryID: 1,
			Name:       "Widget",
			SalePrice:  decimal.NewFromFloat(9.99),
			Stock:      10,
		})
		require.NoError(t, err)
		assert.Equal(t, expected, resp.Code)
	}
}

func TestItemCreate_SuppliedCodeKept(t *testing.T) {
	svc, _, _ := buildItemSvc()

	resp, err := svc.Create(context.Background(), 1, dto.CreateItemRequest{
		Code:       "BRG777",
		CategoryID: 1,
		Name:       "Widget",
	})
	require.NoError(t, err)
	assert.Equal(t, "BRG777", resp.Code)
}

func TestItemCreate_UnknownCategory(t *testing.T) {
	svc, _, _ := buildItemSvc()

	_, err := svc.Create(context.Background(), 1, dto.CreateItemRequest{
		CategoryID: 42,
		Name:       "Widget",
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["category_id"], "42")
}

func TestItemUpdate_PartialFields(t *testing.T) {
	svc, itemRepo, _ := buildItemSvc()
	seedItem(itemRepo, "BRG001", "Widget", 10.00, 5)

	name := "Widget Pro"
	resp, err := svc.Update(context.Background(), 1, "BRG001", dto.UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", resp.Name)
	// Untouched fields survive
	assert.True(t, resp.SalePrice.Equal(decimal.NewFromFloat(10.00)))
	assert.Equal(t, 5, resp.Stock)
}

func TestItemDelete_UnknownCode(t *testing.T) {
	svc, _, _ := buildItemSvc()
	err := svc.Delete(context.Background(), 1, "BRG404")
	var vErr *apierror.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCustomerCreate_GeneratesCode(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	svc := service.NewCustomerService(customerRepo, newStubSequenceRepo(), nil)

	for _, expected := range []string{"PGN001", "PGN002"} {
		resp, err := svc.Create(context.Background(), 1, dto.CreateCustomerRequest{
			Name:   "Jane Doe",
			Region: "North",
			Gender: model.GenderFemale,
		})
		require.NoError(t, err)
		assert.Equal(t, expected, resp.Code)
	}
}

func TestCustomerUpdate_LoyaltyPoints(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	customerRepo.customers["PGN001"] = &model.Customer{
		Code: "PGN001", Name: "Jane", Region: "North", Gender: model.GenderFemale, LoyaltyPoints: 10,
	}
	svc := service.NewCustomerService(customerRepo, newStubSequenceRepo(), nil)

	points := 25
	resp, err := svc.Update(context.Background(), 1, "PGN001", dto.UpdateCustomerRequest{LoyaltyPoints: &points})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.LoyaltyPoints)
	assert.Equal(t, "Jane", resp.Name)
}
