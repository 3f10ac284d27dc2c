package models

import "time"

// Event is an organized dig or meetup. EventDate is when the event takes
// place, distinct from CreatedAt.
type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Venue         string    `gorm:"size:255" json:"venue"`
	EventDate     time.Time `gorm:"not null" json:"eventDate"`
	AttendeeCount int       `gorm:"not null;default:0" json:"attendeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
