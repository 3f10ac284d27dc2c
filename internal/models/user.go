// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered member of the Trove community.
// Usernames are unique case-insensitively; emails are unique as stored.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email             string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password          string     `gorm:"not null" json:"password"`
	Bio               string     `gorm:"type:text" json:"bio"`
	Avatar            string     `json:"avatar"`
	Verified          bool       `gorm:"not null;default:false" json:"verified"`
	VerificationToken string     `gorm:"index" json:"verificationToken,omitempty"`
	TokenExpiry       *time.Time `json:"tokenExpiry,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
