package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	items repository.ItemRepository
}

func NewCategoryService(repo repository.CategoryRepository, items repository.ItemRepository) CategoryService {
	return &categoryService{repo: repo, items: items}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &model.Category{Name: req.Name}
	if err := s.repo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.FieldError("name", "category %s already exists", req.Name)
		}
		return nil, repository.TranslateError(err)
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return resp, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.FieldError("id", "category %d not found", id)
		}
		return nil, repository.TranslateError(err)
	}
	category.Name = req.Name
	if err := s.repo.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.FieldError("name", "category %s already exists", req.Name)
		}
		return nil, repository.TranslateError(err)
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.FieldError("id", "category %d not found", id)
		}
		return repository.TranslateError(err)
	}
	// Refuse deletion while items still reference the category.
	_, total, err := s.items.List(ctx, dto.ItemFilter{CategoryID: id, Page: 1, Limit: 1})
	if err != nil {
		return repository.TranslateError(err)
	}
	if total > 0 {
		return apierror.FieldError("id", "category %d still has %d items", id, total)
	}
	return repository.TranslateError(s.repo.Delete(ctx, id))
}
