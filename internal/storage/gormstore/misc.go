package gormstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/storage"
)

// Preferences. One record per user, created on first save with defaults.

func (s *GormStore) GetPreferences(ctx context.Context, userID uint) (*models.Preference, error) {
	var pref models.Preference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &pref, nil
}

func (s *GormStore) SavePreferences(ctx context.Context, userID uint, in storage.UpdatePreferences) (*models.Preference, error) {
	var pref models.Preference
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown user")
			}
			return models.NewInternalError(err)
		}
		err := tx.Where("user_id = ?", userID).First(&pref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pref = models.Preference{
				UserID:             userID,
				Units:              "metric",
				EmailNotifications: true,
				PublicProfile:      true,
				Theme:              "system",
			}
		} else if err != nil {
			return models.NewInternalError(err)
		}
		if in.Units != nil {
			pref.Units = *in.Units
		}
		if in.EmailNotifications != nil {
			pref.EmailNotifications = *in.EmailNotifications
		}
		if in.PublicProfile != nil {
			pref.PublicProfile = *in.PublicProfile
		}
		if in.Theme != nil {
			pref.Theme = *in.Theme
		}
		if err := tx.Save(&pref).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Image metadata. StorageKey is issued by the store and is the handle
// callers use against object storage.

func (s *GormStore) CreateImageMetadata(ctx context.Context, in storage.NewImage) (*models.ImageMetadata, error) {
	image := &models.ImageMetadata{
		UserID:      in.UserID,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		StorageKey:  uuid.NewString(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown user")
			}
			return models.NewInternalError(err)
		}
		if err := tx.Create(image).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (s *GormStore) GetImageMetadata(ctx context.Context, id uint) (*models.ImageMetadata, error) {
	var image models.ImageMetadata
	if err := s.db.WithContext(ctx).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

func (s *GormStore) DeleteImageMetadata(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.ImageMetadata{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListImagesByUser(ctx context.Context, userID uint) ([]models.ImageMetadata, error) {
	var images []models.ImageMetadata
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&images).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}
