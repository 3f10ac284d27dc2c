package models

import "time"

// Message is a direct message between two users. IsRead is mutated only by
// the dedicated mark-read operation.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"senderId"`
	ReceiverID uint      `gorm:"not null;index" json:"receiverId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}
