// Package storage defines the persistence facade every other layer talks to.
//
// Exactly one backend is bound at process start: the embedded snapshot store
// (memstore) when no external database is configured, otherwise the
// relational store (gormstore). Both implement the same contract, so callers
// cannot tell which backend is active.
//
// Absence is reported as (nil, nil) for lookups and updates and (false, nil)
// for deletes; errors are reserved for validation and system failures.
package storage

import (
	"context"
	"time"

	"trove/internal/models"
)

// Storage is the uniform access interface over the persistent entity store.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, in NewUser) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, in UpdateUser) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetEmailVerificationToken(ctx context.Context, userID uint, token string, expiry time.Time) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
	GetUserSocialStats(ctx context.Context, userID uint) (*SocialStats, error)

	// Categories
	CreateCategory(ctx context.Context, in NewCategory) (*models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, in UpdateCategory) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) (bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Posts
	CreatePost(ctx context.Context, in NewPost) (*models.Post, error)
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, in UpdatePost) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) (bool, error)
	ListPosts(ctx context.Context, f PostFilter) ([]models.Post, error)
	IncrementPostViews(ctx context.Context, id uint) (*models.Post, error)

	// Comments
	CreateComment(ctx context.Context, in NewComment) (*models.Comment, error)
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uint) (bool, error)
	ListComments(ctx context.Context, f CommentFilter) ([]models.Comment, error)

	// Post likes
	LikePost(ctx context.Context, userID, postID uint) (*models.PostLike, error)
	UnlikePost(ctx context.Context, userID, postID uint) (bool, error)
	HasLikedPost(ctx context.Context, userID, postID uint) (bool, error)

	// Finds
	CreateFind(ctx context.Context, in NewFind) (*models.Find, error)
	GetFind(ctx context.Context, id uint) (*models.Find, error)
	UpdateFind(ctx context.Context, id uint, in UpdateFind) (*models.Find, error)
	DeleteFind(ctx context.Context, id uint) (bool, error)
	ListFinds(ctx context.Context, f FindFilter) ([]models.Find, error)

	// Find comments
	CreateFindComment(ctx context.Context, in NewFindComment) (*models.FindComment, error)
	DeleteFindComment(ctx context.Context, id uint) (bool, error)
	ListFindComments(ctx context.Context, f FindCommentFilter) ([]models.FindComment, error)

	// Find likes
	LikeFind(ctx context.Context, userID, findID uint) (*models.FindLike, error)
	UnlikeFind(ctx context.Context, userID, findID uint) (bool, error)
	HasLikedFind(ctx context.Context, userID, findID uint) (bool, error)

	// Locations
	CreateLocation(ctx context.Context, in NewLocation) (*models.Location, error)
	GetLocation(ctx context.Context, id uint) (*models.Location, error)
	UpdateLocation(ctx context.Context, id uint, in UpdateLocation) (*models.Location, error)
	DeleteLocation(ctx context.Context, id uint) (bool, error)
	ListLocations(ctx context.Context, f LocationFilter) ([]models.Location, error)

	// Events
	CreateEvent(ctx context.Context, in NewEvent) (*models.Event, error)
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uint, in UpdateEvent) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uint) (bool, error)
	ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error)

	// Stories
	CreateStory(ctx context.Context, in NewStory) (*models.Story, error)
	GetStory(ctx context.Context, id uint) (*models.Story, error)
	UpdateStory(ctx context.Context, id uint, in UpdateStory) (*models.Story, error)
	DeleteStory(ctx context.Context, id uint) (bool, error)
	ListStories(ctx context.Context, f StoryFilter) ([]models.Story, error)

	// Groups and memberships
	CreateGroup(ctx context.Context, in NewGroup) (*models.Group, error)
	GetGroup(ctx context.Context, id uint) (*models.Group, error)
	UpdateGroup(ctx context.Context, id uint, in UpdateGroup) (*models.Group, error)
	DeleteGroup(ctx context.Context, id uint) (bool, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	JoinGroup(ctx context.Context, groupID, userID uint, role models.GroupRole) (*models.GroupMembership, error)
	LeaveGroup(ctx context.Context, groupID, userID uint) (bool, error)
	GetGroupMembership(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error)
	ListGroupMembers(ctx context.Context, groupID uint) ([]models.GroupMembership, error)

	// Social graph
	FollowUser(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error)
	UnfollowUser(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error)
	GetConnection(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.UserConnection, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.UserConnection, error)

	// Activities
	CreateActivity(ctx context.Context, in NewActivity) (*models.Activity, error)
	ListActivities(ctx context.Context, f ActivityFilter) ([]models.Activity, error)

	// Messages
	CreateMessage(ctx context.Context, in NewMessage) (*models.Message, error)
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	ListMessages(ctx context.Context, f MessageFilter) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, id uint) (*models.Message, error)

	// Achievements
	CreateAchievement(ctx context.Context, in NewAchievement) (*models.Achievement, error)
	GetAchievement(ctx context.Context, id uint) (*models.Achievement, error)
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	AwardAchievement(ctx context.Context, userID, achievementID uint) (*models.UserAchievement, error)
	ListUserAchievements(ctx context.Context, userID uint) ([]models.UserAchievement, error)

	// Routes
	CreateRoute(ctx context.Context, in NewRoute) (*models.Route, error)
	GetRoute(ctx context.Context, id uint) (*models.Route, error)
	UpdateRoute(ctx context.Context, id uint, in UpdateRoute) (*models.Route, error)
	DeleteRoute(ctx context.Context, id uint) (bool, error)
	ListRoutes(ctx context.Context, f RouteFilter) ([]models.Route, error)

	// Preferences
	GetPreferences(ctx context.Context, userID uint) (*models.Preference, error)
	SavePreferences(ctx context.Context, userID uint, in UpdatePreferences) (*models.Preference, error)

	// Image metadata
	CreateImageMetadata(ctx context.Context, in NewImage) (*models.ImageMetadata, error)
	GetImageMetadata(ctx context.Context, id uint) (*models.ImageMetadata, error)
	DeleteImageMetadata(ctx context.Context, id uint) (bool, error)
	ListImagesByUser(ctx context.Context, userID uint) ([]models.ImageMetadata, error)

	// Cross-cutting
	ReconcileAllCounters(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// SocialStats summarizes a user's public profile numbers. Follower and
// following counts reflect only active connections.
type SocialStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
	Posts     int `json:"posts"`
	Finds     int `json:"finds"`
}
