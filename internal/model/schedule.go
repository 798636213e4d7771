package model

import "time"

// Schedule holds one user's availability for a single calendar day,
// bit-packed into four bytes (30 half-hour slots, 09:00-24:00).
// At most one row exists per (user, date); a missing row means the
// user declared no availability for that day.
type Schedule struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	Date      time.Time `gorm:"primaryKey"`
	BlockData []byte    `gorm:"size:4;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
