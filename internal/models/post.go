package models

import "time"

// PostStatus is the moderation state of a post.
type PostStatus string

const (
	PostPending  PostStatus = "PENDING"
	PostApproved PostStatus = "APPROVED"
	PostRejected PostStatus = "REJECTED"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostPending, PostApproved, PostRejected:
		return true
	}
	return false
}

// Post is a user submission awaiting moderation. RejectionReason is
// set only while Status is REJECTED; approval clears it.
type Post struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Status          PostStatus `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	RejectionReason *string    `gorm:"size:1024" json:"rejectionReason"`
	UserID          uint       `gorm:"index;not null" json:"userId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
