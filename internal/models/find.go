package models

import "time"

// Find is an item a user dug up and shared in the finds gallery.
// CommentCount and Likes are denormalized counters.
type Find struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	ImageURL     string    `json:"imageUrl"`
	Material     string    `gorm:"size:80" json:"material"`
	Period       string    `gorm:"size:80" json:"period"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	Likes        int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FindComment is a reply on a find.
type FindComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FindID    uint      `gorm:"not null;index" json:"findId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
