package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trove/internal/models"
	"trove/internal/storage"
)

// Preferences. One record per user, created on first save with defaults.

func (s *MemStore) GetPreferences(ctx context.Context, userID uint) (*models.Preference, error) {
	_ = ctx
	var p *models.Preference
	s.view(func(d *snapshot) {
		for _, rec := range d.Preferences {
			if rec.UserID == userID {
				p = copyOf(rec)
				return
			}
		}
	})
	return p, nil
}

func (s *MemStore) SavePreferences(ctx context.Context, userID uint, in storage.UpdatePreferences) (*models.Preference, error) {
	_ = ctx
	var saved *models.Preference
	err := s.mutate(kindPreferences, func(d *snapshot) error {
		if d.Users[userID] == nil {
			return models.NewValidationError("Unknown user")
		}
		var p *models.Preference
		for _, rec := range d.Preferences {
			if rec.UserID == userID {
				p = rec
				break
			}
		}
		if p == nil {
			now := time.Now().UTC()
			p = &models.Preference{
				ID:                 d.nextID(kindPreferences),
				UserID:             userID,
				Units:              "metric",
				EmailNotifications: true,
				PublicProfile:      true,
				Theme:              "system",
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			d.Preferences[p.ID] = p
		}
		if in.Units != nil {
			p.Units = *in.Units
		}
		if in.EmailNotifications != nil {
			p.EmailNotifications = *in.EmailNotifications
		}
		if in.PublicProfile != nil {
			p.PublicProfile = *in.PublicProfile
		}
		if in.Theme != nil {
			p.Theme = *in.Theme
		}
		p.UpdatedAt = time.Now().UTC()
		saved = copyOf(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Image metadata. StorageKey is issued by the store and is the handle
// callers use against object storage.

func (s *MemStore) CreateImageMetadata(ctx context.Context, in storage.NewImage) (*models.ImageMetadata, error) {
	_ = ctx
	var created *models.ImageMetadata
	err := s.mutate(kindImages, func(d *snapshot) error {
		if d.Users[in.UserID] == nil {
			return models.NewValidationError("Unknown user")
		}
		img := &models.ImageMetadata{
			ID:          d.nextID(kindImages),
			UserID:      in.UserID,
			FileName:    in.FileName,
			ContentType: in.ContentType,
			SizeBytes:   in.SizeBytes,
			StorageKey:  uuid.NewString(),
			CreatedAt:   time.Now().UTC(),
		}
		d.Images[img.ID] = img
		created = copyOf(img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetImageMetadata(ctx context.Context, id uint) (*models.ImageMetadata, error) {
	_ = ctx
	var img *models.ImageMetadata
	s.view(func(d *snapshot) { img = copyOf(d.Images[id]) })
	return img, nil
}

func (s *MemStore) DeleteImageMetadata(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindImages, func(d *snapshot) error {
		if d.Images[id] == nil {
			return errNoMutation
		}
		delete(d.Images, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListImagesByUser(ctx context.Context, userID uint) ([]models.ImageMetadata, error) {
	_ = ctx
	var out []models.ImageMetadata
	s.view(func(d *snapshot) {
		out = collect(d.Images, func(i *models.ImageMetadata) uint { return i.ID }, func(i *models.ImageMetadata) bool {
			return i.UserID == userID
		})
	})
	return out, nil
}
