package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/storage"
)

// Stories

func (s *GormStore) CreateStory(ctx context.Context, in storage.NewStory) (*models.Story, error) {
	story := &models.Story{
		UserID:   in.UserID,
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
	}
	if err := s.db.WithContext(ctx).Create(story).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return story, nil
}

func (s *GormStore) GetStory(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := s.db.WithContext(ctx).First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &story, nil
}

func (s *GormStore) UpdateStory(ctx context.Context, id uint, in storage.UpdateStory) (*models.Story, error) {
	var story models.Story
	if err := s.db.WithContext(ctx).First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if in.Title != nil {
		story.Title = *in.Title
	}
	if in.Content != nil {
		story.Content = *in.Content
	}
	if in.ImageURL != nil {
		story.ImageURL = *in.ImageURL
	}
	if err := s.db.WithContext(ctx).Save(&story).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &story, nil
}

func (s *GormStore) DeleteStory(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Story{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListStories(ctx context.Context, f storage.StoryFilter) ([]models.Story, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var stories []models.Story
	if err := q.Find(&stories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

// Groups

func (s *GormStore) CreateGroup(ctx context.Context, in storage.NewGroup) (*models.Group, error) {
	group := &models.Group{
		CreatedByUserID: in.CreatedByUserID,
		Name:            in.Name,
		Description:     in.Description,
		IsPrivate:       in.IsPrivate,
		MemberCount:     1,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return models.NewInternalError(err)
		}
		// The creator is the group's first member and its owner.
		membership := &models.GroupMembership{
			GroupID: group.ID,
			UserID:  in.CreatedByUserID,
			Role:    models.GroupRoleOwner,
		}
		if err := tx.Create(membership).Error; err != nil {
			return models.NewIntegrityError("owner membership creation failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GormStore) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (s *GormStore) UpdateGroup(ctx context.Context, id uint, in storage.UpdateGroup) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if in.Name != nil {
		group.Name = *in.Name
	}
	if in.Description != nil {
		group.Description = *in.Description
	}
	if in.IsPrivate != nil {
		group.IsPrivate = *in.IsPrivate
	}
	if err := s.db.WithContext(ctx).Save(&group).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (s *GormStore) DeleteGroup(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		if err := cascadeDeleteGroup(tx, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *GormStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

// JoinGroup is idempotent: joining a group the user already belongs to
// returns the existing membership with its original role.
func (s *GormStore) JoinGroup(ctx context.Context, groupID, userID uint, role models.GroupRole) (*models.GroupMembership, error) {
	if role == "" {
		role = models.GroupRoleMember
	}
	var membership models.GroupMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown group")
			}
			return models.NewInternalError(err)
		}
		err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		membership = models.GroupMembership{GroupID: groupID, UserID: userID, Role: role}
		if err := tx.Create(&membership).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Group{}).Where("id = ?", groupID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
			return models.NewIntegrityError("member count update failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *GormStore) LeaveGroup(ctx context.Context, groupID, userID uint) (bool, error) {
	left := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.GroupMembership{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Group{}).Where("id = ? AND member_count > 0", groupID).
			UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
			return models.NewIntegrityError("member count update failed", err)
		}
		left = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return left, nil
}

func (s *GormStore) GetGroupMembership(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error) {
	var membership models.GroupMembership
	if err := s.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

func (s *GormStore) ListGroupMembers(ctx context.Context, groupID uint) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	if err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Order("id").Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

// Social graph. A follow edge is never deleted: unfollowing flips it
// inactive, and a re-follow reactivates the same edge.

func (s *GormStore) FollowUser(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error) {
	if followerID == followingID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}
	var conn models.UserConnection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Where("id IN ?", []uint{followerID, followingID}).Count(&users).Error; err != nil {
			return models.NewInternalError(err)
		}
		if users != 2 {
			return models.NewValidationError("Unknown user")
		}
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&conn).Error
		if err == nil {
			if conn.Status == models.ConnectionStatusActive {
				return nil
			}
			conn.Status = models.ConnectionStatusActive
			if err := tx.Save(&conn).Error; err != nil {
				return models.NewInternalError(err)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		conn = models.UserConnection{
			FollowerID:  followerID,
			FollowingID: followingID,
			Status:      models.ConnectionStatusActive,
		}
		if err := tx.Create(&conn).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (s *GormStore) UnfollowUser(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error) {
	var conn models.UserConnection
	if err := s.db.WithContext(ctx).Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if conn.Status != models.ConnectionStatusInactive {
		conn.Status = models.ConnectionStatusInactive
		if err := s.db.WithContext(ctx).Save(&conn).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return &conn, nil
}

func (s *GormStore) GetConnection(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error) {
	var conn models.UserConnection
	if err := s.db.WithContext(ctx).Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

func (s *GormStore) ListFollowers(ctx context.Context, userID uint) ([]models.UserConnection, error) {
	var conns []models.UserConnection
	if err := s.db.WithContext(ctx).
		Where("following_id = ? AND status = ?", userID, models.ConnectionStatusActive).
		Order("id").Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

func (s *GormStore) ListFollowing(ctx context.Context, userID uint) ([]models.UserConnection, error) {
	var conns []models.UserConnection
	if err := s.db.WithContext(ctx).
		Where("follower_id = ? AND status = ?", userID, models.ConnectionStatusActive).
		Order("id").Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// Activities

func (s *GormStore) CreateActivity(ctx context.Context, in storage.NewActivity) (*models.Activity, error) {
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	activity := &models.Activity{
		UserID:   in.UserID,
		Type:     in.Type,
		Detail:   in.Detail,
		IsPublic: isPublic,
	}
	if err := s.db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return activity, nil
}

// ListActivities returns newest first.
func (s *GormStore) ListActivities(ctx context.Context, f storage.ActivityFilter) ([]models.Activity, error) {
	q := s.db.WithContext(ctx).Order("id DESC")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.PublicOnly {
		q = q.Where("is_public = ?", true)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var activities []models.Activity
	if err := q.Find(&activities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return activities, nil
}
