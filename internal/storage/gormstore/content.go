package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/storage"
)

// Categories

func (s *GormStore) CreateCategory(ctx context.Context, in storage.NewCategory) (*models.Category, error) {
	category := &models.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Icon:        in.Icon,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Where("LOWER(slug) = LOWER(?)", in.Slug).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewValidationError("Category slug already exists")
		}
		if err := tx.Create(category).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (s *GormStore) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("LOWER(slug) = LOWER(?)", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (s *GormStore) UpdateCategory(ctx context.Context, id uint, in storage.UpdateCategory) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if in.Name != nil {
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Icon != nil {
		category.Icon = *in.Icon
	}
	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

// DeleteCategory refuses while live posts still reference the category:
// posts must be moved or deleted first.
func (s *GormStore) DeleteCategory(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		var posts int64
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).Count(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		if posts > 0 {
			return models.NewValidationError("Category still has posts")
		}
		if err := tx.Delete(&models.Category{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// Posts

func (s *GormStore) CreatePost(ctx context.Context, in storage.NewPost) (*models.Post, error) {
	post := &models.Post{
		UserID:     in.UserID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Content:    in.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown category")
			}
			return models.NewInternalError(err)
		}
		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Category{}).Where("id = ?", in.CategoryID).
			UpdateColumn("count", gorm.Expr("count + 1")).Error; err != nil {
			return models.NewIntegrityError("category count update failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *GormStore) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (s *GormStore) UpdatePost(ctx context.Context, id uint, in storage.UpdatePost) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				post.ID = 0
				return nil
			}
			return models.NewInternalError(err)
		}
		if in.CategoryID != nil && *in.CategoryID != post.CategoryID {
			var next models.Category
			if err := tx.First(&next, *in.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewValidationError("Unknown category")
				}
				return models.NewInternalError(err)
			}
			if err := tx.Model(&models.Category{}).Where("id = ? AND count > 0", post.CategoryID).
				UpdateColumn("count", gorm.Expr("count - 1")).Error; err != nil {
				return models.NewIntegrityError("category count update failed", err)
			}
			if err := tx.Model(&models.Category{}).Where("id = ?", *in.CategoryID).
				UpdateColumn("count", gorm.Expr("count + 1")).Error; err != nil {
				return models.NewIntegrityError("category count update failed", err)
			}
			post.CategoryID = *in.CategoryID
		}
		if in.Title != nil {
			post.Title = *in.Title
		}
		if in.Content != nil {
			post.Content = *in.Content
		}
		if err := tx.Save(&post).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if post.ID == 0 {
		return nil, nil
	}
	return &post, nil
}

func (s *GormStore) DeletePost(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		if err := cascadeDeletePost(tx, &post); err != nil {
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

func (s *GormStore) ListPosts(ctx context.Context, f storage.PostFilter) ([]models.Post, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (s *GormStore) IncrementPostViews(ctx context.Context, id uint) (*models.Post, error) {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetPost(ctx, id)
}

// Comments

func (s *GormStore) CreateComment(ctx context.Context, in storage.NewComment) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  in.PostID,
		UserID:  in.UserID,
		Content: in.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, in.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown post")
			}
			return models.NewInternalError(err)
		}
		if err := tx.Create(comment).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", in.PostID).
			UpdateColumn("comments", gorm.Expr("comments + 1")).Error; err != nil {
			return models.NewIntegrityError("comment count update failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *GormStore) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (s *GormStore) DeleteComment(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ? AND comments > 0", comment.PostID).
			UpdateColumn("comments", gorm.Expr("comments - 1")).Error; err != nil {
			return models.NewIntegrityError("comment count update failed", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *GormStore) ListComments(ctx context.Context, f storage.CommentFilter) ([]models.Comment, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.PostID != nil {
		q = q.Where("post_id = ?", *f.PostID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var comments []models.Comment
	if err := q.Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// Post likes

// LikePost is idempotent: liking an already-liked post returns the
// existing record without touching the counter.
func (s *GormStore) LikePost(ctx context.Context, userID, postID uint) (*models.PostLike, error) {
	var like models.PostLike
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown post")
			}
			return models.NewInternalError(err)
		}
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		like = models.PostLike{UserID: userID, PostID: postID}
		if err := tx.Create(&like).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
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

func (s *GormStore) UnlikePost(ctx context.Context, userID, postID uint) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.PostLike{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Post{}).Where("id = ? AND likes > 0", postID).
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

func (s *GormStore) HasLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
