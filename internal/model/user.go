package model

import "time"

// User represents a registered account, created on first Kakao login.
type User struct {
	ID         int64  `gorm:"primaryKey;column:user_id"`
	KakaoID    int64  `gorm:"uniqueIndex"`
	Email      string `gorm:"uniqueIndex;size:256;not null"`
	Name       string `gorm:"size:128;not null"`
	ProfileImg string `gorm:"size:512"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
