package memstore

import (
	"context"
	"time"

	"trove/internal/models"
	"trove/internal/storage"
)

// Locations

func (s *MemStore) CreateLocation(ctx context.Context, in storage.NewLocation) (*models.Location, error) {
	_ = ctx
	var created *models.Location
	err := s.mutate(kindLocations, func(d *snapshot) error {
		now := time.Now().UTC()
		l := &models.Location{
			ID:          d.nextID(kindLocations),
			UserID:      in.UserID,
			Name:        in.Name,
			Description: in.Description,
			Latitude:    in.Latitude,
			Longitude:   in.Longitude,
			IsPrivate:   in.IsPrivate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		d.Locations[l.ID] = l
		created = copyOf(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	_ = ctx
	var l *models.Location
	s.view(func(d *snapshot) { l = copyOf(d.Locations[id]) })
	return l, nil
}

func (s *MemStore) UpdateLocation(ctx context.Context, id uint, in storage.UpdateLocation) (*models.Location, error) {
	_ = ctx
	var updated *models.Location
	err := s.mutate(kindLocations, func(d *snapshot) error {
		l := d.Locations[id]
		if l == nil {
			return errNoMutation
		}
		if in.Name != nil {
			l.Name = *in.Name
		}
		if in.Description != nil {
			l.Description = *in.Description
		}
		if in.Latitude != nil {
			l.Latitude = *in.Latitude
		}
		if in.Longitude != nil {
			l.Longitude = *in.Longitude
		}
		if in.IsPrivate != nil {
			l.IsPrivate = *in.IsPrivate
		}
		l.UpdatedAt = time.Now().UTC()
		updated = copyOf(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemStore) DeleteLocation(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindLocations, func(d *snapshot) error {
		if d.Locations[id] == nil {
			return errNoMutation
		}
		delete(d.Locations, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListLocations(ctx context.Context, f storage.LocationFilter) ([]models.Location, error) {
	_ = ctx
	var out []models.Location
	s.view(func(d *snapshot) {
		out = collect(d.Locations, func(l *models.Location) uint { return l.ID }, func(l *models.Location) bool {
			if f.UserID != nil && l.UserID != *f.UserID {
				return false
			}
			if l.IsPrivate && !f.IncludePrivate {
				return false
			}
			return true
		})
	})
	return out, nil
}

// Events

func (s *MemStore) CreateEvent(ctx context.Context, in storage.NewEvent) (*models.Event, error) {
	_ = ctx
	var created *models.Event
	err := s.mutate(kindEvents, func(d *snapshot) error {
		now := time.Now().UTC()
		e := &models.Event{
			ID:          d.nextID(kindEvents),
			UserID:      in.UserID,
			Title:       in.Title,
			Description: in.Description,
			Venue:       in.Venue,
			EventDate:   in.EventDate.UTC(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		d.Events[e.ID] = e
		created = copyOf(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	_ = ctx
	var e *models.Event
	s.view(func(d *snapshot) { e = copyOf(d.Events[id]) })
	return e, nil
}

func (s *MemStore) UpdateEvent(ctx context.Context, id uint, in storage.UpdateEvent) (*models.Event, error) {
	_ = ctx
	var updated *models.Event
	err := s.mutate(kindEvents, func(d *snapshot) error {
		e := d.Events[id]
		if e == nil {
			return errNoMutation
		}
		if in.Title != nil {
			e.Title = *in.Title
		}
		if in.Description != nil {
			e.Description = *in.Description
		}
		if in.Venue != nil {
			e.Venue = *in.Venue
		}
		if in.EventDate != nil {
			e.EventDate = in.EventDate.UTC()
		}
		if in.AttendeeCount != nil && *in.AttendeeCount >= 0 {
			e.AttendeeCount = *in.AttendeeCount
		}
		e.UpdatedAt = time.Now().UTC()
		updated = copyOf(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemStore) DeleteEvent(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindEvents, func(d *snapshot) error {
		if d.Events[id] == nil {
			return errNoMutation
		}
		delete(d.Events, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListEvents(ctx context.Context, f storage.EventFilter) ([]models.Event, error) {
	_ = ctx
	var out []models.Event
	s.view(func(d *snapshot) {
		out = collect(d.Events, func(e *models.Event) uint { return e.ID }, func(e *models.Event) bool {
			if f.UserID != nil && e.UserID != *f.UserID {
				return false
			}
			if f.After != nil && !e.EventDate.After(*f.After) {
				return false
			}
			return true
		})
	})
	return out, nil
}

// Routes

func (s *MemStore) CreateRoute(ctx context.Context, in storage.NewRoute) (*models.Route, error) {
	_ = ctx
	var created *models.Route
	err := s.mutate(kindRoutes, func(d *snapshot) error {
		now := time.Now().UTC()
		r := &models.Route{
			ID:          d.nextID(kindRoutes),
			UserID:      in.UserID,
			Name:        in.Name,
			Description: in.Description,
			Waypoints:   in.Waypoints,
			DistanceKM:  in.DistanceKM,
			IsPublic:    in.IsPublic,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		d.Routes[r.ID] = r
		created = copyOf(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetRoute(ctx context.Context, id uint) (*models.Route, error) {
	_ = ctx
	var r *models.Route
	s.view(func(d *snapshot) { r = copyOf(d.Routes[id]) })
	return r, nil
}

func (s *MemStore) UpdateRoute(ctx context.Context, id uint, in storage.UpdateRoute) (*models.Route, error) {
	_ = ctx
	var updated *models.Route
	err := s.mutate(kindRoutes, func(d *snapshot) error {
		r := d.Routes[id]
		if r == nil {
			return errNoMutation
		}
		if in.Name != nil {
			r.Name = *in.Name
		}
		if in.Description != nil {
			r.Description = *in.Description
		}
		if in.Waypoints != nil {
			r.Waypoints = *in.Waypoints
		}
		if in.DistanceKM != nil {
			r.DistanceKM = *in.DistanceKM
		}
		if in.IsPublic != nil {
			r.IsPublic = *in.IsPublic
		}
		r.UpdatedAt = time.Now().UTC()
		updated = copyOf(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemStore) DeleteRoute(ctx context.Context, id uint) (bool, error) {
	_ = ctx
	deleted := false
	err := s.mutate(kindRoutes, func(d *snapshot) error {
		if d.Routes[id] == nil {
			return errNoMutation
		}
		delete(d.Routes, id)
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *MemStore) ListRoutes(ctx context.Context, f storage.RouteFilter) ([]models.Route, error) {
	_ = ctx
	var out []models.Route
	s.view(func(d *snapshot) {
		out = collect(d.Routes, func(r *models.Route) uint { return r.ID }, func(r *models.Route) bool {
			if f.UserID != nil && r.UserID != *f.UserID {
				return false
			}
			if f.PublicOnly && !r.IsPublic {
				return false
			}
			return true
		})
	})
	return out, nil
}
