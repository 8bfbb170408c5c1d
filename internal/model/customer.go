package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Customer is an optional reference on a sale, keyed by a generated code
// (e.g. "PGN003").
type Customer struct {
	Code          string `gorm:"primaryKey;size:20"`
	Name          string `gorm:"not null;index"`
	Region        string `gorm:"not null"`
	Gender        string `gorm:"type:varchar(10);not null"`
	LoyaltyPoints int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Customer) TableName() string { return "customers" }
