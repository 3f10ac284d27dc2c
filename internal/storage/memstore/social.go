package memstore

import (
	"context"
	"time"

	"trove/internal/models"
	"trove/internal/storage"
)

// Stories

func (s *MemStore) CreateStory(ctx context.Context, in storage.NewStory) (*models.Story, error) {
	_ = ctx
	var created *models.Story
	err := s.mutate(kindStories, func(d *snapshot) error {
		now := time.Now().UTC()
		st := &models.Story{
			ID:        d.nextID(kindStories),
			UserID:    in.UserID,
			Title:     in.Title,
			Content:   in.Content,
			ImageURL:  in.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		d.Stories[st.ID] = st
		created = copyOf(st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetStory(ctx context.Context, id uint) (*models.Story, error) {
	_ = ctx
	var st *models.Story
	s.view(func(d *snapshot) { st = copyOf(d.Stories[id]) })
	return st, nil
}

func (s *MemStore) UpdateStory(ctx context.Context, id uint, in storage.UpdateStory) (*models.Story, error) {
	_ = ctx
	var updated *models.Story
	err := s.mutate(kindStories, func(d *snapshot) error {
		st := d.Stories[id]
		if st == nil {
			return errNoMutation
		}
		if in.Title != nil {
			st.Title = *in.Title
		}
		if in.Content != nil {
			st.Content = *in.Content
		}
		if in.ImageURL != nil {
			st.ImageURL = *in.ImageURL
		}
		st.UpdatedAt = time.Now().UTC()
		updated = copyOf(st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemStore) DeleteStory(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindStories, func(d *snapshot) error {
		if d.Stories[id] == nil {
			return errNoMutation
		}
		delete(d.Stories, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListStories(ctx context.Context, f storage.StoryFilter) ([]models.Story, error) {
	_ = ctx
	var out []models.Story
	s.view(func(d *snapshot) {
		out = collect(d.Stories, func(st *models.Story) uint { return st.ID }, func(st *models.Story) bool {
			return f.UserID == nil || st.UserID == *f.UserID
		})
	})
	return out, nil
}

// Groups

func (s *MemStore) CreateGroup(ctx context.Context, in storage.NewGroup) (*models.Group, error) {
	_ = ctx
	var created *models.Group
	err := s.mutate(kindGroups, func(d *snapshot) error {
		now := time.Now().UTC()
		g := &models.Group{
			ID:              d.nextID(kindGroups),
			CreatedByUserID: in.CreatedByUserID,
			Name:            in.Name,
			Description:     in.Description,
			IsPrivate:       in.IsPrivate,
			MemberCount:     1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		d.Groups[g.ID] = g
		// The creator is the group's first member and its owner.
		m := &models.GroupMembership{
			ID:        d.nextID(kindGroupMemberships),
			GroupID:   g.ID,
			UserID:    in.CreatedByUserID,
			Role:      models.GroupRoleOwner,
			CreatedAt: now,
		}
		d.GroupMemberships[m.ID] = m
		created = copyOf(g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	_ = ctx
	var g *models.Group
	s.view(func(d *snapshot) { g = copyOf(d.Groups[id]) })
	return g, nil
}

func (s *MemStore) UpdateGroup(ctx context.Context, id uint, in storage.UpdateGroup) (*models.Group, error) {
	_ = ctx
	var updated *models.Group
	err := s.mutate(kindGroups, func(d *snapshot) error {
		g := d.Groups[id]
		if g == nil {
			return errNoMutation
		}
		if in.Name != nil {
			g.Name = *in.Name
		}
		if in.Description != nil {
			g.Description = *in.Description
		}
		if in.IsPrivate != nil {
			g.IsPrivate = *in.IsPrivate
		}
		g.UpdatedAt = time.Now().UTC()
		updated = copyOf(g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemStore) DeleteGroup(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindGroups, func(d *snapshot) error {
		g := d.Groups[id]
		if g == nil {
			return errNoMutation
		}
		cascadeDeleteGroup(d, g)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	_ = ctx
	var out []models.Group
	s.view(func(d *snapshot) {
		out = collect(d.Groups, func(g *models.Group) uint { return g.ID }, nil)
	})
	return out, nil
}

func (s *MemStore) JoinGroup(ctx context.Context, groupID, userID uint, role models.GroupRole) (*models.GroupMembership, error) {
	_ = ctx
	if role == "" {
		role = models.GroupRoleMember
	}
	var membership *models.GroupMembership
	err := s.mutate(kindGroupMemberships, func(d *snapshot) error {
		g := d.Groups[groupID]
		if g == nil {
			return models.NewValidationError("Unknown group")
		}
		for _, m := range d.GroupMemberships {
			if m.GroupID == groupID && m.UserID == userID {
				membership = copyOf(m)
				return errNoMutation
			}
		}
		m := &models.GroupMembership{
			ID:        d.nextID(kindGroupMemberships),
			GroupID:   groupID,
			UserID:    userID,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		}
		d.GroupMemberships[m.ID] = m
		g.MemberCount++
		membership = copyOf(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *MemStore) LeaveGroup(ctx context.Context, groupID, userID uint) (bool, error) {
	_ = ctx
	left := false
	err := s.mutate(kindGroupMemberships, func(d *snapshot) error {
		removed := deleteWhere(d.GroupMemberships, func(m *models.GroupMembership) bool {
			return m.GroupID == groupID && m.UserID == userID
		}, nil)
		if removed == 0 {
			return errNoMutation
		}
		if g := d.Groups[groupID]; g != nil && g.MemberCount > 0 {
			g.MemberCount--
		}
		left = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return left, nil
}

func (s *MemStore) GetGroupMembership(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error) {
	_ = ctx
	var membership *models.GroupMembership
	s.view(func(d *snapshot) {
		for _, m := range d.GroupMemberships {
			if m.GroupID == groupID && m.UserID == userID {
				membership = copyOf(m)
				return
			}
		}
	})
	return membership, nil
}

func (s *MemStore) ListGroupMembers(ctx context.Context, groupID uint) ([]models.GroupMembership, error) {
	_ = ctx
	var out []models.GroupMembership
	s.view(func(d *snapshot) {
		out = collect(d.GroupMemberships, func(m *models.GroupMembership) uint { return m.ID }, func(m *models.GroupMembership) bool {
			return m.GroupID == groupID
		})
	})
	return out, nil
}

// Social graph. A follow edge is never deleted: unfollowing flips it
// inactive, and a re-follow reactivates the same edge.

func (s *MemStore) FollowUser(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error) {
	_ = ctx
	if followerID == followingID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}
	var conn *models.UserConnection
	err := s.mutate(kindUserConnections, func(d *snapshot) error {
		if d.Users[followerID] == nil || d.Users[followingID] == nil {
			return models.NewValidationError("Unknown user")
		}
		for _, c := range d.UserConnections {
			if c.FollowerID == followerID && c.FollowingID == followingID {
				if c.Status == models.ConnectionStatusActive {
					conn = copyOf(c)
					return errNoMutation
				}
				c.Status = models.ConnectionStatusActive
				c.UpdatedAt = time.Now().UTC()
				conn = copyOf(c)
				return nil
			}
		}
		now := time.Now().UTC()
		c := &models.UserConnection{
			ID:          d.nextID(kindUserConnections),
			FollowerID:  followerID,
			FollowingID: followingID,
			Status:      models.ConnectionStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		d.UserConnections[c.ID] = c
		conn = copyOf(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *MemStore) UnfollowUser(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error) {
	_ = ctx
	var conn *models.UserConnection
	err := s.mutate(kindUserConnections, func(d *snapshot) error {
		for _, c := range d.UserConnections {
			if c.FollowerID == followerID && c.FollowingID == followingID {
				if c.Status == models.ConnectionStatusInactive {
					conn = copyOf(c)
					return errNoMutation
				}
				c.Status = models.ConnectionStatusInactive
				c.UpdatedAt = time.Now().UTC()
				conn = copyOf(c)
				return nil
			}
		}
		return errNoMutation
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *MemStore) GetConnection(ctx context.Context, followerID, followingID uint) (*models.UserConnection, error) {
	_ = ctx
	var conn *models.UserConnection
	s.view(func(d *snapshot) {
		for _, c := range d.UserConnections {
			if c.FollowerID == followerID && c.FollowingID == followingID {
				conn = copyOf(c)
				return
			}
		}
	})
	return conn, nil
}

func (s *MemStore) ListFollowers(ctx context.Context, userID uint) ([]models.UserConnection, error) {
	_ = ctx
	var out []models.UserConnection
	s.view(func(d *snapshot) {
		out = collect(d.UserConnections, func(c *models.UserConnection) uint { return c.ID }, func(c *models.UserConnection) bool {
			return c.FollowingID == userID && c.Status == models.ConnectionStatusActive
		})
	})
	return out, nil
}

func (s *MemStore) ListFollowing(ctx context.Context, userID uint) ([]models.UserConnection, error) {
	_ = ctx
	var out []models.UserConnection
	s.view(func(d *snapshot) {
		out = collect(d.UserConnections, func(c *models.UserConnection) uint { return c.ID }, func(c *models.UserConnection) bool {
			return c.FollowerID == userID && c.Status == models.ConnectionStatusActive
		})
	})
	return out, nil
}

// Activities

func (s *MemStore) CreateActivity(ctx context.Context, in storage.NewActivity) (*models.Activity, error) {
	_ = ctx
	var created *models.Activity
	err := s.mutate(kindActivities, func(d *snapshot) error {
		isPublic := true
		if in.IsPublic != nil {
			isPublic = *in.IsPublic
		}
		a := &models.Activity{
			ID:        d.nextID(kindActivities),
			UserID:    in.UserID,
			Type:      in.Type,
			Detail:    in.Detail,
			IsPublic:  isPublic,
			CreatedAt: time.Now().UTC(),
		}
		d.Activities[a.ID] = a
		created = copyOf(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListActivities returns newest first, which is the only order a feed
// consumer wants.
func (s *MemStore) ListActivities(ctx context.Context, f storage.ActivityFilter) ([]models.Activity, error) {
	_ = ctx
	var out []models.Activity
	s.view(func(d *snapshot) {
		out = collect(d.Activities, func(a *models.Activity) uint { return a.ID }, func(a *models.Activity) bool {
			if f.UserID != nil && a.UserID != *f.UserID {
				return false
			}
			if f.PublicOnly && !a.IsPublic {
				return false
			}
			return true
		})
	})
	// collect orders ascending by identifier; reverse for recency.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
