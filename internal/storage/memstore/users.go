package memstore

import (
	"context"
	"strings"
	"time"

	"trove/internal/models"
	"trove/internal/storage"
)

func (s *MemStore) CreateUser(ctx context.Context, in storage.NewUser) (*models.User, error) {
	_ = ctx
	hashed, err := storage.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var created *models.User
	err = s.mutate(kindUsers, func(d *snapshot) error {
		for _, u := range d.Users {
			if strings.EqualFold(u.Username, in.Username) {
				return models.NewValidationError("Username already taken")
			}
			if strings.EqualFold(u.Email, in.Email) {
				return models.NewValidationError("Email already registered")
			}
		}
		now := time.Now().UTC()
		u := &models.User{
			ID:        d.nextID(kindUsers),
			Username:  in.Username,
			Email:     in.Email,
			Password:  hashed,
			Bio:       in.Bio,
			Avatar:    in.Avatar,
			CreatedAt: now,
			UpdatedAt: now,
		}
		d.Users[u.ID] = u
		created = copyOf(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	_ = ctx
	var u *models.User
	s.view(func(d *snapshot) { u = copyOf(d.Users[id]) })
	return u, nil
}

func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	_ = ctx
	var found *models.User
	s.view(func(d *snapshot) {
		for _, u := range d.Users {
			if strings.EqualFold(u.Username, username) {
				found = copyOf(u)
				return
			}
		}
	})
	return found, nil
}

func (s *MemStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	_ = ctx
	var found *models.User
	s.view(func(d *snapshot) {
		for _, u := range d.Users {
			if strings.EqualFold(u.Email, email) {
				found = copyOf(u)
				return
			}
		}
	})
	return found, nil
}

func (s *MemStore) UpdateUser(ctx context.Context, id uint, in storage.UpdateUser) (*models.User, error) {
	_ = ctx
	var hashed string
	if in.Password != nil {
		h, err := storage.HashPassword(*in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		hashed = h
	}

	var updated *models.User
	err := s.mutate(kindUsers, func(d *snapshot) error {
		u := d.Users[id]
		if u == nil {
			return errNoMutation
		}
		for _, other := range d.Users {
			if other.ID == id {
				continue
			}
			if in.Username != nil && strings.EqualFold(other.Username, *in.Username) {
				return models.NewValidationError("Username already taken")
			}
			if in.Email != nil && strings.EqualFold(other.Email, *in.Email) {
				return models.NewValidationError("Email already registered")
			}
		}
		if in.Username != nil {
			u.Username = *in.Username
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Password != nil {
			u.Password = hashed
		}
		if in.Bio != nil {
			u.Bio = *in.Bio
		}
		if in.Avatar != nil {
			u.Avatar = *in.Avatar
		}
		u.UpdatedAt = time.Now().UTC()
		updated = copyOf(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes the user and everything the user owns or left behind;
// see the cascade table. Either every step lands durably or none do.
func (s *MemStore) DeleteUser(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindUsers, func(d *snapshot) error {
		if d.Users[id] == nil {
			return errNoMutation
		}
		cascadeDeleteUser(d, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListUsers(ctx context.Context) ([]models.User, error) {
	_ = ctx
	var out []models.User
	s.view(func(d *snapshot) { out = collect(d.Users, userIDOf, nil) })
	return out, nil
}

func (s *MemStore) SetEmailVerificationToken(ctx context.Context, id uint, token string, expiry time.Time) (*models.User, error) {
	_ = ctx
	var updated *models.User
	err := s.mutate(kindUsers, func(d *snapshot) error {
		u := d.Users[id]
		if u == nil {
			return errNoMutation
		}
		u.VerificationToken = token
		exp := expiry.UTC()
		u.TokenExpiry = &exp
		u.UpdatedAt = time.Now().UTC()
		updated = copyOf(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// VerifyEmail consumes a live verification token. An unknown or expired
// token reports absence.
func (s *MemStore) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	_ = ctx
	if token == "" {
		return nil, nil
	}
	var verified *models.User
	err := s.mutate(kindUsers, func(d *snapshot) error {
		now := time.Now().UTC()
		for _, u := range d.Users {
			if u.VerificationToken != token {
				continue
			}
			if u.TokenExpiry == nil || u.TokenExpiry.Before(now) {
				return errNoMutation
			}
			u.Verified = true
			u.VerificationToken = ""
			u.TokenExpiry = nil
			u.UpdatedAt = now
			verified = copyOf(u)
			return nil
		}
		return errNoMutation
	})
	if err != nil {
		return nil, err
	}
	return verified, nil
}

func (s *MemStore) GetUserSocialStats(ctx context.Context, id uint) (*storage.SocialStats, error) {
	_ = ctx
	var stats *storage.SocialStats
	s.view(func(d *snapshot) {
		if d.Users[id] == nil {
			return
		}
		stats = &storage.SocialStats{
			Followers: countWhere(d.UserConnections, func(c *models.UserConnection) bool {
				return c.FollowingID == id && c.Status == models.ConnectionStatusActive
			}),
			Following: countWhere(d.UserConnections, func(c *models.UserConnection) bool {
				return c.FollowerID == id && c.Status == models.ConnectionStatusActive
			}),
			Posts: countWhere(d.Posts, func(p *models.Post) bool { return p.UserID == id }),
			Finds: countWhere(d.Finds, func(f *models.Find) bool { return f.UserID == id }),
		}
	})
	return stats, nil
}
