package models

import "time"

// Story is a longer-form write-up of a hunt or a find's history.
type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Title     string    `gorm:"size:300;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
