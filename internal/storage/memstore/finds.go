package memstore

import (
	"context"
	"time"

	"trove/internal/models"
	"trove/internal/storage"
)

func (s *MemStore) CreateFind(ctx context.Context, in storage.NewFind) (*models.Find, error) {
	_ = ctx
	var created *models.Find
	err := s.mutate(kindFinds, func(d *snapshot) error {
		now := time.Now().UTC()
		f := &models.Find{
			ID:          d.nextID(kindFinds),
			UserID:      in.UserID,
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			Material:    in.Material,
			Period:      in.Period,
			Latitude:    in.Latitude,
			Longitude:   in.Longitude,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		d.Finds[f.ID] = f
		created = copyOf(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetFind(ctx context.Context, id uint) (*models.Find, error) {
	_ = ctx
	var f *models.Find
	s.view(func(d *snapshot) { f = copyOf(d.Finds[id]) })
	return f, nil
}

func (s *MemStore) UpdateFind(ctx context.Context, id uint, in storage.UpdateFind) (*models.Find, error) {
	_ = ctx
	var updated *models.Find
	err := s.mutate(kindFinds, func(d *snapshot) error {
		f := d.Finds[id]
		if f == nil {
			return errNoMutation
		}
		if in.Title != nil {
			f.Title = *in.Title
		}
		if in.Description != nil {
			f.Description = *in.Description
		}
		if in.ImageURL != nil {
			f.ImageURL = *in.ImageURL
		}
		if in.Material != nil {
			f.Material = *in.Material
		}
		if in.Period != nil {
			f.Period = *in.Period
		}
		if in.Latitude != nil {
			f.Latitude = in.Latitude
		}
		if in.Longitude != nil {
			f.Longitude = in.Longitude
		}
		f.UpdatedAt = time.Now().UTC()
		updated = copyOf(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemStore) DeleteFind(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindFinds, func(d *snapshot) error {
		f := d.Finds[id]
		if f == nil {
			return errNoMutation
		}
		cascadeDeleteFind(d, f)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListFinds(ctx context.Context, f storage.FindFilter) ([]models.Find, error) {
	_ = ctx
	var out []models.Find
	s.view(func(d *snapshot) {
		out = collect(d.Finds, findIDOf, func(rec *models.Find) bool {
			return f.UserID == nil || rec.UserID == *f.UserID
		})
	})
	return out, nil
}

// Find comments

func (s *MemStore) CreateFindComment(ctx context.Context, in storage.NewFindComment) (*models.FindComment, error) {
	_ = ctx
	var created *models.FindComment
	err := s.mutate(kindFindComments, func(d *snapshot) error {
		find := d.Finds[in.FindID]
		if find == nil {
			return models.NewValidationError("Unknown find")
		}
		c := &models.FindComment{
			ID:        d.nextID(kindFindComments),
			FindID:    in.FindID,
			UserID:    in.UserID,
			Content:   in.Content,
			CreatedAt: time.Now().UTC(),
		}
		d.FindComments[c.ID] = c
		find.CommentCount++
		created = copyOf(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) DeleteFindComment(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindFindComments, func(d *snapshot) error {
		c := d.FindComments[id]
		if c == nil {
			return errNoMutation
		}
		if f := d.Finds[c.FindID]; f != nil && f.CommentCount > 0 {
			f.CommentCount--
		}
		delete(d.FindComments, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListFindComments(ctx context.Context, f storage.FindCommentFilter) ([]models.FindComment, error) {
	_ = ctx
	var out []models.FindComment
	s.view(func(d *snapshot) {
		out = collect(d.FindComments, func(c *models.FindComment) uint { return c.ID }, func(c *models.FindComment) bool {
			if f.FindID != nil && c.FindID != *f.FindID {
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

// Find likes

func (s *MemStore) LikeFind(ctx context.Context, userID, findID uint) (*models.FindLike, error) {
	_ = ctx
	var like *models.FindLike
	err := s.mutate(kindFindLikes, func(d *snapshot) error {
		find := d.Finds[findID]
		if find == nil {
			return models.NewValidationError("Unknown find")
		}
		for _, l := range d.FindLikes {
			if l.UserID == userID && l.FindID == findID {
				like = copyOf(l)
				return errNoMutation
			}
		}
		l := &models.FindLike{
			ID:        d.nextID(kindFindLikes),
			UserID:    userID,
			FindID:    findID,
			CreatedAt: time.Now().UTC(),
		}
		d.FindLikes[l.ID] = l
		find.Likes++
		like = copyOf(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

func (s *MemStore) UnlikeFind(ctx context.Context, userID, findID uint) (bool, error) {
	_ = ctx
	removed := false
	err := s.mutate(kindFindLikes, func(d *snapshot) error {
		n := deleteWhere(d.FindLikes, func(l *models.FindLike) bool {
			return l.UserID == userID && l.FindID == findID
		}, nil)
		if n == 0 {
			return errNoMutation
		}
		if f := d.Finds[findID]; f != nil && f.Likes > 0 {
			f.Likes--
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *MemStore) HasLikedFind(ctx context.Context, userID, findID uint) (bool, error) {
	_ = ctx
	liked := false
	s.view(func(d *snapshot) {
		liked = countWhere(d.FindLikes, func(l *models.FindLike) bool {
			return l.UserID == userID && l.FindID == findID
		}) > 0
	})
	return liked, nil
}
