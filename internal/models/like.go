package models

import "time"

// PostLike marks that a user liked a post.
// The combination of UserID and PostID must be unique.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like_user_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindLike marks that a user liked a find.
// The combination of UserID and FindID must be unique.
type FindLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_find_like_user_find" json:"userId"`
	FindID    uint      `gorm:"not null;uniqueIndex:idx_find_like_user_find" json:"findId"`
	CreatedAt time.Time `json:"createdAt"`
}
