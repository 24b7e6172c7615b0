package models

import (
	"time"

	"gorm.io/gorm"
)

// Operator is a service account for a bot adapter calling the API.
// Operators are deliberately separate from tracked users so the retention
// sweeper can never delete credentials.
type Operator struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
