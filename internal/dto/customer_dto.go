package dto

type CreateCustomerRequest struct {
	// Code is generated ("PGN003") when empty.
	Code          string `json:"code"           validate:"omitempty,max=20"`
	Name          string `json:"name"           validate:"required,max=100"`
	Region        string `json:"region"         validate:"required,max=100"`
	Gender        string `json:"gender"         validate:"required,oneof=MALE FEMALE"`
	LoyaltyPoints int    `json:"loyalty_points" validate:"min=0"`
}

type UpdateCustomerRequest struct {
	Name          *string `json:"name"           validate:"omitempty,max=100"`
	Region        *string `json:"region"         validate:"omitempty,max=100"`
	Gender        *string `json:"gender"         validate:"omitempty,oneof=MALE FEMALE"`
	LoyaltyPoints *int    `json:"loyalty_points" validate:"omitempty,min=0"`
}

type CustomerFilter struct {
	Search string `form:"search"`
	Region string `form:"region"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=15" validate:"min=1,max=200"`
}

type CustomerResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Region        string `json:"region"`
	Gender        string `json:"gender"`
	LoyaltyPoints int    `json:"loyalty_points"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
