package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"trove/internal/cache"
	"trove/internal/models"
	"trove/internal/storage"
)

func (s *GormStore) CreateUser(ctx context.Context, in storage.NewUser) (*models.User, error) {
	hashed, err := storage.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		Bio:      in.Bio,
		Avatar:   in.Avatar,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", in.Username).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewValidationError("Username already taken")
		}
		if err := tx.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", in.Email).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewValidationError("Email already registered")
		}
		if err := tx.Create(user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// errUserAbsent keeps missing users out of the cache.
var errUserAbsent = errors.New("user absent")

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.cache.Aside(ctx, cache.UserKey(id), &user, userCacheTTL, func() error {
		if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUserAbsent
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if errors.Is(err, errUserAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, in storage.UpdateUser) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				user.ID = 0
				return nil
			}
			return models.NewInternalError(err)
		}
		var count int64
		if in.Username != nil {
			if err := tx.Model(&models.User{}).Where("LOWER(username) = LOWER(?) AND id <> ?", *in.Username, id).Count(&count).Error; err != nil {
				return models.NewInternalError(err)
			}
			if count > 0 {
				return models.NewValidationError("Username already taken")
			}
			user.Username = *in.Username
		}
		if in.Email != nil {
			if err := tx.Model(&models.User{}).Where("LOWER(email) = LOWER(?) AND id <> ?", *in.Email, id).Count(&count).Error; err != nil {
				return models.NewInternalError(err)
			}
			if count > 0 {
				return models.NewValidationError("Email already registered")
			}
			user.Email = *in.Email
		}
		if in.Password != nil {
			hashed, err := storage.HashPassword(*in.Password)
			if err != nil {
				return models.NewInternalError(err)
			}
			user.Password = hashed
		}
		if in.Bio != nil {
			user.Bio = *in.Bio
		}
		if in.Avatar != nil {
			user.Avatar = *in.Avatar
		}
		if err := tx.Save(&user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	s.cache.Invalidate(ctx, cache.UserKey(id))
	return &user, nil
}

// DeleteUser removes the user and everything the user owns or left behind,
// in one transaction, keeping every affected counter consistent.
func (s *GormStore) DeleteUser(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		if err := cascadeDeleteUser(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return models.NewIntegrityError("user cascade failed", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		s.cache.Invalidate(ctx, cache.UserKey(id))
	}
	return deleted, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (s *GormStore) SetEmailVerificationToken(ctx context.Context, id uint, token string, expiry time.Time) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	exp := expiry.UTC()
	user.VerificationToken = token
	user.TokenExpiry = &exp
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	s.cache.Invalidate(ctx, cache.UserKey(id))
	return &user, nil
}

// VerifyEmail consumes a live verification token. An unknown or expired
// token reports absence.
func (s *GormStore) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("verification_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if user.TokenExpiry == nil || user.TokenExpiry.Before(time.Now().UTC()) {
		return nil, nil
	}
	user.Verified = true
	user.VerificationToken = ""
	user.TokenExpiry = nil
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	s.cache.Invalidate(ctx, cache.UserKey(user.ID))
	return &user, nil
}

func (s *GormStore) GetUserSocialStats(ctx context.Context, id uint) (*storage.SocialStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}

	stats := &storage.SocialStats{}
	counts := []struct {
		dest  *int
		query *gorm.DB
	}{
		{&stats.Followers, s.db.WithContext(ctx).Model(&models.UserConnection{}).
			Where("following_id = ? AND status = ?", id, models.ConnectionStatusActive)},
		{&stats.Following, s.db.WithContext(ctx).Model(&models.UserConnection{}).
			Where("follower_id = ? AND status = ?", id, models.ConnectionStatusActive)},
		{&stats.Posts, s.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", id)},
		{&stats.Finds, s.db.WithContext(ctx).Model(&models.Find{}).Where("user_id = ?", id)},
	}
	for _, c := range counts {
		var n int64
		if err := c.query.Count(&n).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		*c.dest = int(n)
	}
	return stats, nil
}
