package models

import "time"

// Session tracks one authenticated login. It is usable only while
// IsValid is true and LastActivity is within the inactivity limit;
// staleness is the primary expiry mechanism.
type Session struct {
	ID           string    `gorm:"primaryKey;size:64"` // UUID
	UserID       uint      `gorm:"index;not null"`
	LastActivity time.Time `gorm:"not null"`
	IsValid      bool      `gorm:"index;not null"`
	CreatedAt    time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
