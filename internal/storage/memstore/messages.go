package memstore

import (
	"context"
	"time"

	"trove/internal/models"
	"trove/internal/storage"
)

func (s *MemStore) CreateMessage(ctx context.Context, in storage.NewMessage) (*models.Message, error) {
	_ = ctx
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot message yourself")
	}
	var created *models.Message
	err := s.mutate(kindMessages, func(d *snapshot) error {
		if d.Users[in.SenderID] == nil || d.Users[in.ReceiverID] == nil {
			return models.NewValidationError("Unknown user")
		}
		m := &models.Message{
			ID:         d.nextID(kindMessages),
			SenderID:   in.SenderID,
			ReceiverID: in.ReceiverID,
			Content:    in.Content,
			CreatedAt:  time.Now().UTC(),
		}
		d.Messages[m.ID] = m
		created = copyOf(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemStore) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	_ = ctx
	var m *models.Message
	s.view(func(d *snapshot) { m = copyOf(d.Messages[id]) })
	return m, nil
}

func (s *MemStore) ListMessages(ctx context.Context, f storage.MessageFilter) ([]models.Message, error) {
	_ = ctx
	var out []models.Message
	s.view(func(d *snapshot) {
		out = collect(d.Messages, func(m *models.Message) uint { return m.ID }, func(m *models.Message) bool {
			if f.UserID == nil {
				return true
			}
			if f.PeerID != nil {
				a, b := *f.UserID, *f.PeerID
				return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
			}
			return m.SenderID == *f.UserID || m.ReceiverID == *f.UserID
		})
	})
	return out, nil
}

func (s *MemStore) MarkMessageRead(ctx context.Context, id uint) (*models.Message, error) {
	_ = ctx
	var read *models.Message
	err := s.mutate(kindMessages, func(d *snapshot) error {
		m := d.Messages[id]
		if m == nil {
			return errNoMutation
		}
		if m.IsRead {
			read = copyOf(m)
			return errNoMutation
		}
		m.IsRead = true
		read = copyOf(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return read, nil
}
