package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/storage"
)

// Locations

func (s *GormStore) CreateLocation(ctx context.Context, in storage.NewLocation) (*models.Location, error) {
	location := &models.Location{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		IsPrivate:   in.IsPrivate,
	}
	if err := s.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return location, nil
}

func (s *GormStore) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &location, nil
}

func (s *GormStore) UpdateLocation(ctx context.Context, id uint, in storage.UpdateLocation) (*models.Location, error) {
	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if in.Name != nil {
		location.Name = *in.Name
	}
	if in.Description != nil {
		location.Description = *in.Description
	}
	if in.Latitude != nil {
		location.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		location.Longitude = *in.Longitude
	}
	if in.IsPrivate != nil {
		location.IsPrivate = *in.IsPrivate
	}
	if err := s.db.WithContext(ctx).Save(&location).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &location, nil
}

func (s *GormStore) DeleteLocation(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Location{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListLocations(ctx context.Context, f storage.LocationFilter) ([]models.Location, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if !f.IncludePrivate {
		q = q.Where("is_private = ?", false)
	}
	var locations []models.Location
	if err := q.Find(&locations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return locations, nil
}

// Events

func (s *GormStore) CreateEvent(ctx context.Context, in storage.NewEvent) (*models.Event, error) {
	event := &models.Event{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Venue:       in.Venue,
		EventDate:   in.EventDate.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return event, nil
}

func (s *GormStore) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

func (s *GormStore) UpdateEvent(ctx context.Context, id uint, in storage.UpdateEvent) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Venue != nil {
		event.Venue = *in.Venue
	}
	if in.EventDate != nil {
		event.EventDate = in.EventDate.UTC()
	}
	if in.AttendeeCount != nil && *in.AttendeeCount >= 0 {
		event.AttendeeCount = *in.AttendeeCount
	}
	if err := s.db.WithContext(ctx).Save(&event).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

func (s *GormStore) DeleteEvent(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Event{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListEvents(ctx context.Context, f storage.EventFilter) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.After != nil {
		q = q.Where("event_date > ?", f.After.UTC())
	}
	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

// Routes

func (s *GormStore) CreateRoute(ctx context.Context, in storage.NewRoute) (*models.Route, error) {
	route := &models.Route{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		Waypoints:   in.Waypoints,
		DistanceKM:  in.DistanceKM,
		IsPublic:    in.IsPublic,
	}
	if err := s.db.WithContext(ctx).Create(route).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return route, nil
}

func (s *GormStore) GetRoute(ctx context.Context, id uint) (*models.Route, error) {
	var route models.Route
	if err := s.db.WithContext(ctx).First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &route, nil
}

func (s *GormStore) UpdateRoute(ctx context.Context, id uint, in storage.UpdateRoute) (*models.Route, error) {
	var route models.Route
	if err := s.db.WithContext(ctx).First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if in.Name != nil {
		route.Name = *in.Name
	}
	if in.Description != nil {
		route.Description = *in.Description
	}
	if in.Waypoints != nil {
		route.Waypoints = *in.Waypoints
	}
	if in.DistanceKM != nil {
		route.DistanceKM = *in.DistanceKM
	}
	if in.IsPublic != nil {
		route.IsPublic = *in.IsPublic
	}
	if err := s.db.WithContext(ctx).Save(&route).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &route, nil
}

func (s *GormStore) DeleteRoute(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Route{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListRoutes(ctx context.Context, f storage.RouteFilter) ([]models.Route, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.PublicOnly {
		q = q.Where("is_public = ?", true)
	}
	var routes []models.Route
	if err := q.Find(&routes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return routes, nil
}
