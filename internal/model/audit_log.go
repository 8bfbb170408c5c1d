package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is a post-commit record of an entity mutation. Rows are written by
// the audit worker, never inside the mutating transaction — a notification
// failure must not roll back the operation it describes.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     *uint     `gorm:"index"`
	Action     string    `gorm:"type:varchar(20);not null"` // created | updated | deleted
	EntityType string    `gorm:"type:varchar(40);not null;index"`
	EntityID   string    `gorm:"size:40;not null"`
	OldValues  *string   `gorm:"type:jsonb"`
	NewValues  *string   `gorm:"type:jsonb"`
	CreatedAt  time.Time

	User *User `gorm:"foreignKey:UserID"`
}

func (AuditLog) TableName() string { return "audit_logs" }
