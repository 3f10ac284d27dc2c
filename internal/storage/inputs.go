package storage

import "time"

// Create inputs. Fields left zero take the entity's declared default.
// Update inputs use pointer fields: nil means "leave unchanged"; identifiers
// and creation timestamps are never touched by an update.

type NewUser struct {
	Username string
	Email    string
	Password string // plaintext; hashed by the store before persisting
	Bio      string
	Avatar   string
}

type UpdateUser struct {
	Username *string
	Email    *string
	Password *string // plaintext; re-hashed when set
	Bio      *string
	Avatar   *string
}

type NewCategory struct {
	Name        string
	Slug        string
	Description string
	Icon        string
}

type UpdateCategory struct {
	Name        *string
	Description *string
	Icon        *string
}

type NewPost struct {
	UserID     uint
	CategoryID uint
	Title      string
	Content    string
}

type UpdatePost struct {
	Title      *string
	Content    *string
	CategoryID *uint // moving a post adjusts both category counts
}

type PostFilter struct {
	UserID     *uint
	CategoryID *uint
}

type NewComment struct {
	PostID  uint
	UserID  uint
	Content string
}

type CommentFilter struct {
	PostID *uint
	UserID *uint
}

type NewFind struct {
	UserID      uint
	Title       string
	Description string
	ImageURL    string
	Material    string
	Period      string
	Latitude    *float64
	Longitude   *float64
}

type UpdateFind struct {
	Title       *string
	Description *string
	ImageURL    *string
	Material    *string
	Period      *string
	Latitude    *float64
	Longitude   *float64
}

type FindFilter struct {
	UserID *uint
}

type NewFindComment struct {
	FindID  uint
	UserID  uint
	Content string
}

type FindCommentFilter struct {
	FindID *uint
	UserID *uint
}

type NewLocation struct {
	UserID      uint
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	IsPrivate   bool
}

type UpdateLocation struct {
	Name        *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	IsPrivate   *bool
}

// LocationFilter selects locations. Private locations are only returned
// when IncludePrivate is set; the caller decides whether the viewer may
// see them.
type LocationFilter struct {
	UserID         *uint
	IncludePrivate bool
}

type NewEvent struct {
	UserID      uint
	Title       string
	Description string
	Venue       string
	EventDate   time.Time
}

type UpdateEvent struct {
	Title         *string
	Description   *string
	Venue         *string
	EventDate     *time.Time
	AttendeeCount *int
}

type EventFilter struct {
	UserID *uint
	After  *time.Time // only events scheduled after this instant
}

type NewStory struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
}

type UpdateStory struct {
	Title    *string
	Content  *string
	ImageURL *string
}

type StoryFilter struct {
	UserID *uint
}

type NewGroup struct {
	CreatedByUserID uint
	Name            string
	Description     string
	IsPrivate       bool
}

type UpdateGroup struct {
	Name        *string
	Description *string
	IsPrivate   *bool
}

type NewActivity struct {
	UserID   uint
	Type     string
	Detail   string
	IsPublic *bool // nil defaults to public
}

type ActivityFilter struct {
	UserID     *uint
	PublicOnly bool
	Limit      int // 0 means no limit
}

type NewMessage struct {
	SenderID   uint
	ReceiverID uint
	Content    string
}

// MessageFilter selects messages. UserID matches sender or receiver;
// when PeerID is also set, only the conversation between the two.
type MessageFilter struct {
	UserID *uint
	PeerID *uint
}

type NewAchievement struct {
	Name        string
	Description string
	Icon        string
	Points      int
}

type NewRoute struct {
	UserID      uint
	Name        string
	Description string
	Waypoints   string
	DistanceKM  float64
	IsPublic    bool
}

type UpdateRoute struct {
	Name        *string
	Description *string
	Waypoints   *string
	DistanceKM  *float64
	IsPublic    *bool
}

type RouteFilter struct {
	UserID     *uint
	PublicOnly bool
}

type UpdatePreferences struct {
	Units              *string
	EmailNotifications *bool
	PublicProfile      *bool
	Theme              *string
}

type NewImage struct {
	UserID      uint
	FileName    string
	ContentType string
	SizeBytes   int64
}
