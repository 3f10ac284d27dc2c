package models

import "time"

// Preference holds a user's settings. One record per user.
type Preference struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex" json:"userId"`
	Units              string    `gorm:"size:16;not null;default:'metric'" json:"units"`
	EmailNotifications bool      `gorm:"not null;default:true" json:"emailNotifications"`
	PublicProfile      bool      `gorm:"not null;default:true" json:"publicProfile"`
	Theme              string    `gorm:"size:32;not null;default:'system'" json:"theme"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
