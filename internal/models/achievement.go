package models

import "time"

// Achievement is a catalog entry users can be awarded.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `json:"icon"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserAchievement records an achievement awarded to a user.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_award_user_achievement" json:"userId"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_award_user_achievement" json:"achievementId"`
	CreatedAt     time.Time `json:"createdAt"`
}
