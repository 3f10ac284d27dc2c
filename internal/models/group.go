package models

import "time"

// GroupRole defines a member's role in a group.
type GroupRole string

const (
	// GroupRoleOwner is the group creator role.
	GroupRoleOwner GroupRole = "owner"
	// GroupRoleModerator can manage group content.
	GroupRoleModerator GroupRole = "moderator"
	// GroupRoleMember is the default member role.
	GroupRoleMember GroupRole = "member"
)

// Group is a detecting club or interest group.
// MemberCount is denormalized: it must always equal the number of live
// memberships referencing this group.
type Group struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedByUserID uint      `gorm:"not null;index" json:"createdByUserId"`
	Name            string    `gorm:"size:120;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	IsPrivate       bool      `gorm:"not null;default:false" json:"isPrivate"`
	MemberCount     int       `gorm:"not null;default:0" json:"memberCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// GroupMembership maps users to groups and tracks role.
// A user holds at most one membership per group.
type GroupMembership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_membership_group_user" json:"groupId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_membership_group_user" json:"userId"`
	Role      GroupRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
