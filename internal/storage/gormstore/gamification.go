package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/storage"
)

func (s *GormStore) CreateAchievement(ctx context.Context, in storage.NewAchievement) (*models.Achievement, error) {
	achievement := &models.Achievement{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Points:      in.Points,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Achievement{}).Where("LOWER(name) = LOWER(?)", in.Name).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewValidationError("Achievement name already exists")
		}
		if err := tx.Create(achievement).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return achievement, nil
}

func (s *GormStore) GetAchievement(ctx context.Context, id uint) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := s.db.WithContext(ctx).First(&achievement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &achievement, nil
}

func (s *GormStore) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := s.db.WithContext(ctx).Order("id").Find(&achievements).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return achievements, nil
}

// AwardAchievement is idempotent: awarding an achievement a user already
// holds returns the existing award.
func (s *GormStore) AwardAchievement(ctx context.Context, userID, achievementID uint) (*models.UserAchievement, error) {
	var award models.UserAchievement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown user")
			}
			return models.NewInternalError(err)
		}
		var achievement models.Achievement
		if err := tx.First(&achievement, achievementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown achievement")
			}
			return models.NewInternalError(err)
		}
		err := tx.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&award).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		award = models.UserAchievement{UserID: userID, AchievementID: achievementID}
		if err := tx.Create(&award).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &award, nil
}

func (s *GormStore) ListUserAchievements(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	var awards []models.UserAchievement
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&awards).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return awards, nil
}
