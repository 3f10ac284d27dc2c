package models

import "time"

// Route is a planned or recorded detecting route. Waypoints holds an
// encoded coordinate sequence; the store does not interpret it.
type Route struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Waypoints   string    `gorm:"type:text" json:"waypoints"`
	DistanceKM  float64   `gorm:"not null;default:0" json:"distanceKm"`
	IsPublic    bool      `gorm:"not null;default:false" json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
