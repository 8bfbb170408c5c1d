package service

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/codegen"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
	"github.com/irurudev/nexus-pos/internal/worker"
)

const sequenceItem = "item"

type ItemService interface {
	Create(ctx context.Context, userID uint, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, code string) (*dto.ItemResponse, error)
	List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	Update(ctx context.Context, userID uint, code string, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, userID uint, code string) error
}

type itemService struct {
	repo       repository.ItemRepository
	categories repository.CategoryRepository
	sequences  repository.SequenceRepository
	dispatcher *worker.Dispatcher
}

func NewItemService(
	repo repository.ItemRepository,
	categories repository.CategoryRepository,
	sequences repository.SequenceRepository,
	dispatcher *worker.Dispatcher,
) ItemService {
	return &itemService{repo: repo, categories: categories, sequences: sequences, dispatcher: dispatcher}
}

func (s *itemService) Create(ctx context.Context, userID uint, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.FieldError("category_id", "category %d not found", req.CategoryID)
		}
		return nil, repository.TranslateError(err)
	}

	var item model.Item
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		code := req.Code
		if code == "" {
			seq, err := s.sequences.NextTx(ctx, tx, sequenceItem)
			if err != nil {
				return err
			}
			code = codegen.ItemCode(seq)
		}
		item = model.Item{
			Code:          code,
			CategoryID:    req.CategoryID,
			Name:          req.Name,
			PurchasePrice: req.PurchasePrice,
			SalePrice:     req.SalePrice,
			Stock:         req.Stock,
		}
		if err := s.repo.CreateTx(ctx, tx, &item); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.FieldError("code", "item code %s already in use", code)
			}
			return repository.TranslateError(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.audit(ctx, userID, "created", item.Code, nil, &item)

	resp := itemToResponse(&item)
	return &resp, nil
}

func (s *itemService) Get(ctx context.Context, code string) (*dto.ItemResponse, error) {
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.FieldError("code", "item %s not found", code)
		}
		return nil, repository.TranslateError(err)
	}
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 15
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *itemService) Update(ctx context.Context, userID uint, code string, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.FieldError("code", "item %s not found", code)
		}
		return nil, repository.TranslateError(err)
	}
	before := *item

	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.FieldError("category_id", "category %d not found", *req.CategoryID)
			}
			return nil, repository.TranslateError(err)
		}
		item.CategoryID = *req.CategoryID
		item.Category = nil
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		item.SalePrice = *req.SalePrice
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, repository.TranslateError(err)
	}

	s.audit(ctx, userID, "updated", item.Code, &before, item)

	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) Delete(ctx context.Context, userID uint, code string) error {
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.FieldError("code", "item %s not found", code)
		}
		return repository.TranslateError(err)
	}
	if err := s.repo.SoftDelete(ctx, code); err != nil {
		return repository.TranslateError(err)
	}
	s.audit(ctx, userID, "deleted", code, item, nil)
	return nil
}

func (s *itemService) audit(ctx context.Context, userID uint, action, code string, before, after *model.Item) {
	if s.dispatcher == nil {
		return
	}
	uid := userID
	payload := worker.AuditPayload{
		UserID:     &uid,
		Action:     action,
		EntityType: "item",
		EntityID:   code,
	}
	if before != nil {
		payload.OldValues, _ = json.Marshal(before)
	}
	if after != nil {
		payload.NewValues, _ = json.Marshal(after)
	}
	_ = s.dispatcher.EnqueueAudit(ctx, payload)
}

func itemToResponse(item *model.Item) dto.ItemResponse {
	resp := dto.ItemResponse{
		Code:          item.Code,
		CategoryID:    item.CategoryID,
		Name:          item.Name,
		PurchasePrice: item.PurchasePrice,
		SalePrice:     item.SalePrice,
		Stock:         item.Stock,
	}
	if item.Category != nil {
		resp.CategoryName = item.Category.Name
	}
	return resp
}
