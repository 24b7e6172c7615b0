package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRecord stores one user's check-in count for a single calendar day.
// At most one row exists per (user, year, month, day); a row always carries
// count >= 1 since a zero count is represented by absence.
type AttendanceRecord struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:64;not null;uniqueIndex:idx_attendance_user_day,priority:1" json:"user_id"`
	Year   int    `gorm:"not null;uniqueIndex:idx_attendance_user_day,priority:2" json:"year"`
	Month  int    `gorm:"not null;uniqueIndex:idx_attendance_user_day,priority:3" json:"month"`
	Day    int    `gorm:"not null;uniqueIndex:idx_attendance_user_day,priority:4" json:"day"`
	Count  int    `gorm:"not null;default:1" json:"count"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
