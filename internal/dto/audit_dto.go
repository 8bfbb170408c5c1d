package dto

type AuditLogFilter struct {
	UserID     uint   `form:"user_id"`
	EntityType string `form:"entity_type"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=200"`
}

type AuditLogResponse struct {
	ID         string  `json:"id"`
	UserID     *uint   `json:"user_id"`
	Username   string  `json:"username,omitempty"`
	Action     string  `json:"action"`
	EntityType string  `json:"entity_type"`
	EntityID   string  `json:"entity_id"`
	OldValues  *string `json:"old_values"`
	NewValues  *string `json:"new_values"`
	CreatedAt  string  `json:"created_at"`
}

type AuditLogListResponse struct {
	Data  []AuditLogResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
