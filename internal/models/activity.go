package models

import "time"

// Activity is an append-only feed record attributed to a user.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Type      string    `gorm:"size:64;not null" json:"type"`
	Detail    string    `gorm:"type:text" json:"detail"`
	IsPublic  bool      `gorm:"not null;default:true" json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
}
