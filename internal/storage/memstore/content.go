package memstore

import (
	"context"
	"strings"
	"time"

	"trove/internal/models"
	"trove/internal/storage"
)

// Categories

func (s *MemStore) CreateCategory(ctx context.Context, in storage.NewCategory) (*models.Category, error) {
	_ = ctx
	var created *models.Category
	err := s.mutate(kindCategories, func(d *snapshot) error {
		for _, c := range d.Categories {
			if strings.EqualFold(c.Slug, in.Slug) {
				return models.NewValidationError("Category slug already exists")
			}
		}
		now := time.Now().UTC()
		c := &models.Category{
			ID:          d.nextID(kindCategories),
			Name:        in.Name,
			Slug:        in.Slug,
			Description: in.Description,
			Icon:        in.Icon,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		d.Categories[c.ID] = c
		created = copyOf(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	_ = ctx
	var c *models.Category
	s.view(func(d *snapshot) { c = copyOf(d.Categories[id]) })
	return c, nil
}

func (s *MemStore) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	_ = ctx
	var found *models.Category
	s.view(func(d *snapshot) {
		for _, c := range d.Categories {
			if strings.EqualFold(c.Slug, slug) {
				found = copyOf(c)
				return
			}
		}
	})
	return found, nil
}

func (s *MemStore) UpdateCategory(ctx context.Context, id uint, in storage.UpdateCategory) (*models.Category, error) {
	_ = ctx
	var updated *models.Category
	err := s.mutate(kindCategories, func(d *snapshot) error {
		c := d.Categories[id]
		if c == nil {
			return errNoMutation
		}
		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if in.Icon != nil {
			c.Icon = *in.Icon
		}
		c.UpdatedAt = time.Now().UTC()
		updated = copyOf(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory refuses while live posts still reference the category:
// posts must be moved or deleted first.
func (s *MemStore) DeleteCategory(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindCategories, func(d *snapshot) error {
		if d.Categories[id] == nil {
			return errNoMutation
		}
		if countWhere(d.Posts, func(p *models.Post) bool { return p.CategoryID == id }) > 0 {
			return models.NewValidationError("Category still has posts")
		}
		delete(d.Categories, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	_ = ctx
	var out []models.Category
	s.view(func(d *snapshot) {
		out = collect(d.Categories, func(c *models.Category) uint { return c.ID }, nil)
	})
	return out, nil
}

// Posts

func (s *MemStore) CreatePost(ctx context.Context, in storage.NewPost) (*models.Post, error) {
	_ = ctx
	var created *models.Post
	err := s.mutate(kindPosts, func(d *snapshot) error {
		cat := d.Categories[in.CategoryID]
		if cat == nil {
			return models.NewValidationError("Unknown category")
		}
		now := time.Now().UTC()
		p := &models.Post{
			ID:         d.nextID(kindPosts),
			UserID:     in.UserID,
			CategoryID: in.CategoryID,
			Title:      in.Title,
			Content:    in.Content,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		d.Posts[p.ID] = p
		cat.Count++
		created = copyOf(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	_ = ctx
	var p *models.Post
	s.view(func(d *snapshot) { p = copyOf(d.Posts[id]) })
	return p, nil
}

func (s *MemStore) UpdatePost(ctx context.Context, id uint, in storage.UpdatePost) (*models.Post, error) {
	_ = ctx
	var updated *models.Post
	err := s.mutate(kindPosts, func(d *snapshot) error {
		p := d.Posts[id]
		if p == nil {
			return errNoMutation
		}
		if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
			next := d.Categories[*in.CategoryID]
			if next == nil {
				return models.NewValidationError("Unknown category")
			}
			if prev := d.Categories[p.CategoryID]; prev != nil && prev.Count > 0 {
				prev.Count--
			}
			next.Count++
			p.CategoryID = *in.CategoryID
		}
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Content != nil {
			p.Content = *in.Content
		}
		p.UpdatedAt = time.Now().UTC()
		updated = copyOf(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemStore) DeletePost(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindPosts, func(d *snapshot) error {
		p := d.Posts[id]
		if p == nil {
			return errNoMutation
		}
		cascadeDeletePost(d, p)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListPosts(ctx context.Context, f storage.PostFilter) ([]models.Post, error) {
	_ = ctx
	var out []models.Post
	s.view(func(d *snapshot) {
		out = collect(d.Posts, postIDOf, func(p *models.Post) bool {
			if f.UserID != nil && p.UserID != *f.UserID {
				return false
			}
			if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
				return false
			}
			return true
		})
	})
	return out, nil
}

func (s *MemStore) IncrementPostViews(ctx context.Context, id uint) (*models.Post, error) {
	_ = ctx
	var updated *models.Post
	err := s.mutate(kindPosts, func(d *snapshot) error {
		p := d.Posts[id]
		if p == nil {
			return errNoMutation
		}
		p.Views++
		updated = copyOf(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Comments

func (s *MemStore) CreateComment(ctx context.Context, in storage.NewComment) (*models.Comment, error) {
	_ = ctx
	var created *models.Comment
	err := s.mutate(kindComments, func(d *snapshot) error {
		post := d.Posts[in.PostID]
		if post == nil {
			return models.NewValidationError("Unknown post")
		}
		now := time.Now().UTC()
		c := &models.Comment{
			ID:        d.nextID(kindComments),
			PostID:    in.PostID,
			UserID:    in.UserID,
			Content:   in.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		d.Comments[c.ID] = c
		post.Comments++
		created = copyOf(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	_ = ctx
	var c *models.Comment
	s.view(func(d *snapshot) { c = copyOf(d.Comments[id]) })
	return c, nil
}

func (s *MemStore) DeleteComment(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindComments, func(d *snapshot) error {
		c := d.Comments[id]
		if c == nil {
			return errNoMutation
		}
		if p := d.Posts[c.PostID]; p != nil && p.Comments > 0 {
			p.Comments--
		}
		delete(d.Comments, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListComments(ctx context.Context, f storage.CommentFilter) ([]models.Comment, error) {
	_ = ctx
	var out []models.Comment
	s.view(func(d *snapshot) {
		out = collect(d.Comments, func(c *models.Comment) uint { return c.ID }, func(c *models.Comment) bool {
			if f.PostID != nil && c.PostID != *f.PostID {
				return false
			}
			if f.UserID != nil && c.UserID != *f.UserID {
				return false
			}
			return true
		})
	})
	return out, nil
}

// Post likes

func (s *MemStore) LikePost(ctx context.Context, userID, postID uint) (*models.PostLike, error) {
	_ = ctx
	var like *models.PostLike
	err := s.mutate(kindPostLikes, func(d *snapshot) error {
		post := d.Posts[postID]
		if post == nil {
			return models.NewValidationError("Unknown post")
		}
		for _, l := range d.PostLikes {
			if l.UserID == userID && l.PostID == postID {
				like = copyOf(l)
				return errNoMutation
			}
		}
		l := &models.PostLike{
			ID:        d.nextID(kindPostLikes),
			UserID:    userID,
			PostID:    postID,
			CreatedAt: time.Now().UTC(),
		}
		d.PostLikes[l.ID] = l
		post.Likes++
		like = copyOf(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

func (s *MemStore) UnlikePost(ctx context.Context, userID, postID uint) (bool, error) {
	_ = ctx
	removed := false
	err := s.mutate(kindPostLikes, func(d *snapshot) error {
		n := deleteWhere(d.PostLikes, func(l *models.PostLike) bool {
			return l.UserID == userID && l.PostID == postID
		}, nil)
		if n == 0 {
			return errNoMutation
		}
		if p := d.Posts[postID]; p != nil && p.Likes > 0 {
			p.Likes--
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *MemStore) HasLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	_ = ctx
	liked := false
	s.view(func(d *snapshot) {
		liked = countWhere(d.PostLikes, func(l *models.PostLike) bool {
			return l.UserID == userID && l.PostID == postID
		}) > 0
	})
	return liked, nil
}
