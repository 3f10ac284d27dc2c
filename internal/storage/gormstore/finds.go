package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/storage"
)

func (s *GormStore) CreateFind(ctx context.Context, in storage.NewFind) (*models.Find, error) {
	find := &models.Find{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Material:    in.Material,
		Period:      in.Period,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
	if err := s.db.WithContext(ctx).Create(find).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return find, nil
}

func (s *GormStore) GetFind(ctx context.Context, id uint) (*models.Find, error) {
	var find models.Find
	if err := s.db.WithContext(ctx).First(&find, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &find, nil
}

func (s *GormStore) UpdateFind(ctx context.Context, id uint, in storage.UpdateFind) (*models.Find, error) {
	var find models.Find
	if err := s.db.WithContext(ctx).First(&find, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if in.Title != nil {
		find.Title = *in.Title
	}
	if in.Description != nil {
		find.Description = *in.Description
	}
	if in.ImageURL != nil {
		find.ImageURL = *in.ImageURL
	}
	if in.Material != nil {
		find.Material = *in.Material
	}
	if in.Period != nil {
		find.Period = *in.Period
	}
	if in.Latitude != nil {
		find.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		find.Longitude = in.Longitude
	}
	if err := s.db.WithContext(ctx).Save(&find).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &find, nil
}

func (s *GormStore) DeleteFind(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var find models.Find
		if err := tx.First(&find, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		if err := cascadeDeleteFind(tx, id); err != nil {
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

func (s *GormStore) ListFinds(ctx context.Context, f storage.FindFilter) ([]models.Find, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var finds []models.Find
	if err := q.Find(&finds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return finds, nil
}

// Find comments

func (s *GormStore) CreateFindComment(ctx context.Context, in storage.NewFindComment) (*models.FindComment, error) {
	comment := &models.FindComment{
		FindID:  in.FindID,
		UserID:  in.UserID,
		Content: in.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var find models.Find
		if err := tx.First(&find, in.FindID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown find")
			}
			return models.NewInternalError(err)
		}
		if err := tx.Create(comment).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Find{}).Where("id = ?", in.FindID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return models.NewIntegrityError("find comment count update failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *GormStore) DeleteFindComment(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.FindComment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.FindComment{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Find{}).Where("id = ? AND comment_count > 0", comment.FindID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error; err != nil {
			return models.NewIntegrityError("find comment count update failed", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *GormStore) ListFindComments(ctx context.Context, f storage.FindCommentFilter) ([]models.FindComment, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.FindID != nil {
		q = q.Where("find_id = ?", *f.FindID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var comments []models.FindComment
	if err := q.Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// Find likes

func (s *GormStore) LikeFind(ctx context.Context, userID, findID uint) (*models.FindLike, error) {
	var like models.FindLike
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var find models.Find
		if err := tx.First(&find, findID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown find")
			}
			return models.NewInternalError(err)
		}
		err := tx.Where("user_id = ? AND find_id = ?", userID, findID).First(&like).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		like = models.FindLike{UserID: userID, FindID: findID}
		if err := tx.Create(&like).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Find{}).Where("id = ?", findID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
			return models.NewIntegrityError("like count update failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *GormStore) UnlikeFind(ctx context.Context, userID, findID uint) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND find_id = ?", userID, findID).Delete(&models.FindLike{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Find{}).Where("id = ? AND likes > 0", findID).
			UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
			return models.NewIntegrityError("like count update failed", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *GormStore) HasLikedFind(ctx context.Context, userID, findID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.FindLike{}).
		Where("user_id = ? AND find_id = ?", userID, findID).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
