package models

import "time"

// ConnectionStatus represents the state of a follow edge.
type ConnectionStatus string

const (
	// ConnectionStatusActive indicates the follower currently follows.
	ConnectionStatusActive ConnectionStatus = "active"
	// ConnectionStatusInactive records a past follow. Unfollowing flips the
	// edge inactive instead of deleting it.
	ConnectionStatusInactive ConnectionStatus = "inactive"
)

// UserConnection is a directed follow edge from FollowerID to FollowingID.
type UserConnection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	FollowerID  uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"followerId"`
	FollowingID uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"followingId"`
	Status      ConnectionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
