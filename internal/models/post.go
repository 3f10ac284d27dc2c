package models

import "time"

// Post is a forum post. It belongs to exactly one user and one category.
// Views, Comments and Likes are denormalized counters; Comments must equal
// the number of live Comment records with a matching PostID.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	CategoryID uint      `gorm:"not null;index" json:"categoryId"`
	Title      string    `gorm:"size:300;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Views      int       `gorm:"not null;default:0" json:"views"`
	Comments   int       `gorm:"not null;default:0" json:"comments"`
	Likes      int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
