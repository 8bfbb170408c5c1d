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

const sequenceCustomer = "customer"

type CustomerService interface {
	Create(ctx context.Context, userID uint, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, code string) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, userID uint, code string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, userID uint, code string) error
}

type customerService struct {
	repo       repository.CustomerRepository
	sequences  repository.SequenceRepository
	dispatcher *worker.Dispatcher
}

func NewCustomerService(
	repo repository.CustomerRepository,
	sequences repository.SequenceRepository,
	dispatcher *worker.Dispatcher,
) CustomerService {
	return &customerService{repo: repo, sequences: sequences, dispatcher: dispatcher}
}

func (s *customerService) Create(ctx context.Context, userID uint, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	var customer model.Customer
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		code := req.Code
		if code == "" {
			seq, err := s.sequences.NextTx(ctx, tx, sequenceCustomer)
			if err != nil {
				return err
			}
			code = codegen.CustomerCode(seq)
		}
		customer = model.Customer{
			Code:          code,
			Name:          req.Name,
			Region:        req.Region,
			Gender:        req.Gender,
			LoyaltyPoints: req.LoyaltyPoints,
		}
		if err := s.repo.CreateTx(ctx, tx, &customer); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.FieldError("code", "customer code %s already in use", code)
			}
			return repository.TranslateError(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.audit(ctx, userID, "created", customer.Code, nil, &customer)

	resp := customerToResponse(&customer)
	return &resp, nil
}

func (s *customerService) Get(ctx context.Context, code string) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.FieldError("code", "customer %s not found", code)
		}
		return nil, repository.TranslateError(err)
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 15
	}
	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	data := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		data = append(data, customerToResponse(&customers[i]))
	}
	return &dto.CustomerListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *customerService) Update(ctx context.Context, userID uint, code string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.FieldError("code", "customer %s not found", code)
		}
		return nil, repository.TranslateError(err)
	}
	before := *customer

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Region != nil {
		customer.Region = *req.Region
	}
	if req.Gender != nil {
		customer.Gender = *req.Gender
	}
	if req.LoyaltyPoints != nil {
		customer.LoyaltyPoints = *req.LoyaltyPoints
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, repository.TranslateError(err)
	}

	s.audit(ctx, userID, "updated", code, &before, customer)

	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) Delete(ctx context.Context, userID uint, code string) error {
	customer, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.FieldError("code", "customer %s not found", code)
		}
		return repository.TranslateError(err)
	}
	if err := s.repo.SoftDelete(ctx, code); err != nil {
		return repository.TranslateError(err)
	}
	s.audit(ctx, userID, "deleted", code, customer, nil)
	return nil
}

func (s *customerService) audit(ctx context.Context, userID uint, action, code string, before, after *model.Customer) {
	if s.dispatcher == nil {
		return
	}
	uid := userID
	payload := worker.AuditPayload{
		UserID:     &uid,
		Action:     action,
		EntityType: "customer",
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

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		Code:          c.Code,
		Name:          c.Name,
		Region:        c.Region,
		Gender:        c.Gender,
		LoyaltyPoints: c.LoyaltyPoints,
	}
}
