package worker

// audit_worker.go
// Persists post-commit audit-trail notifications from QueueAudit. The sink is
// strictly best-effort: a failure here is logged and never propagated back to
// the operation that produced the notification.

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
)

// AuditPayload is the job envelope sent to QueueAudit.
type AuditPayload struct {
	UserID     *uint           `json:"user_id"`
	Action     string          `json:"action"` // created | updated | deleted
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
}

type AuditWorker struct {
	repo repository.AuditLogRepository
}

func NewAuditWorker(repo repository.AuditLogRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AuditPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("audit_worker: invalid payload")
		return
	}

	entry := &model.AuditLog{
		UserID:     payload.UserID,
		Action:     payload.Action,
		EntityType: payload.EntityType,
		EntityID:   payload.EntityID,
		OldValues:  rawToString(payload.OldValues),
		NewValues:  rawToString(payload.NewValues),
	}
	if err := w.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("entity_type", payload.EntityType).
			Str("entity_id", payload.EntityID).
			Msg("audit_worker: failed to persist audit log")
		return
	}
	log.Debug().
		Str("action", payload.Action).
		Str("entity_type", payload.EntityType).
		Str("entity_id", payload.EntityID).
		Msg("audit_worker: entry recorded")
}

func rawToString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}
