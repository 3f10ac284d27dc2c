package memstore

import (
	"context"
	"strings"
	"time"

	"trove/internal/models"
	"trove/internal/storage"
)

func (s *MemStore) CreateAchievement(ctx context.Context, in storage.NewAchievement) (*models.Achievement, error) {
	_ = ctx
	var created *models.Achievement
	err := s.mutate(kindAchievements, func(d *snapshot) error {
		for _, a := range d.Achievements {
			if strings.EqualFold(a.Name, in.Name) {
				return models.NewValidationError("Achievement name already exists")
			}
		}
		a := &models.Achievement{
			ID:          d.nextID(kindAchievements),
			Name:        in.Name,
			Description: in.Description,
			Icon:        in.Icon,
			Points:      in.Points,
			CreatedAt:   time.Now().UTC(),
		}
		d.Achievements[a.ID] = a
		created = copyOf(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetAchievement(ctx context.Context, id uint) (*models.Achievement, error) {
	_ = ctx
	var a *models.Achievement
	s.view(func(d *snapshot) { a = copyOf(d.Achievements[id]) })
	return a, nil
}

func (s *MemStore) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	_ = ctx
	var out []models.Achievement
	s.view(func(d *snapshot) {
		out = collect(d.Achievements, func(a *models.Achievement) uint { return a.ID }, nil)
	})
	return out, nil
}

// AwardAchievement is idempotent: awarding an achievement a user already
// holds returns the existing award.
func (s *MemStore) AwardAchievement(ctx context.Context, userID, achievementID uint) (*models.UserAchievement, error) {
	_ = ctx
	var award *models.UserAchievement
	err := s.mutate(kindUserAchievements, func(d *snapshot) error {
		if d.Users[userID] == nil {
			return models.NewValidationError("Unknown user")
		}
		if d.Achievements[achievementID] == nil {
			return models.NewValidationError("Unknown achievement")
		}
		for _, ua := range d.UserAchievements {
			if ua.UserID == userID && ua.AchievementID == achievementID {
				award = copyOf(ua)
				return errNoMutation
			}
		}
		ua := &models.UserAchievement{
			ID:            d.nextID(kindUserAchievements),
			UserID:        userID,
			AchievementID: achievementID,
			CreatedAt:     time.Now().UTC(),
		}
		d.UserAchievements[ua.ID] = ua
		award = copyOf(ua)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return award, nil
}

func (s *MemStore) ListUserAchievements(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	_ = ctx
	var out []models.UserAchievement
	s.view(func(d *snapshot) {
		out = collect(d.UserAchievements, func(ua *models.UserAchievement) uint { return ua.ID }, func(ua *models.UserAchievement) bool {
			return ua.UserID == userID
		})
	})
	return out, nil
}
