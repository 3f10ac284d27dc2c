package models

import "time"

// Category is a forum category posts are filed under.
// Count is denormalized: it must always equal the number of live posts
// whose CategoryID matches this category.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `json:"icon"`
	Count       int       `gorm:"not null;default:0" json:"count"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
