package service

import (
	"context"

	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/repository"
)

type AuditService interface {
	List(ctx context.Context, filter dto.AuditLogFilter) (*dto.AuditLogListResponse, error)
}

type auditService struct {
	repo repository.AuditLogRepository
}

func NewAuditService(repo repository.AuditLogRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, filter dto.AuditLogFilter) (*dto.AuditLogListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	data := make([]dto.AuditLogResponse, 0, len(logs))
	for _, entry := range logs {
		resp := dto.AuditLogResponse{
			ID:         entry.ID.String(),
			UserID:     entry.UserID,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			OldValues:  entry.OldValues,
			NewValues:  entry.NewValues,
			CreatedAt:  entry.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if entry.User != nil {
			resp.Username = entry.User.Username
		}
		data = append(data, resp)
	}
	return &dto.AuditLogListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
