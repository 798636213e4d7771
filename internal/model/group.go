package model

import "time"

// Group is a meeting group. Its ID is a random six-digit code that
// doubles as the invite code, so it is assigned by the store rather
// than auto-incremented.
type Group struct {
	ID        int64     `gorm:"primaryKey;column:group_id;autoIncrement:false"`
	Name      string    `gorm:"size:128;not null"`
	StartDate time.Time `gorm:"not null"` // first day of the 7-day meeting window
	OwnerID   int64     `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Members []Member `gorm:"foreignKey:GroupID"`
}

// Member links a user to a group. The composite primary key makes
// duplicate joins a constraint conflict rather than a second row.
type Member struct {
	GroupID   int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}
