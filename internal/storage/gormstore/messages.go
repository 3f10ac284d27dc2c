package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trove/internal/models"
	"trove/internal/storage"
)

func (s *GormStore) CreateMessage(ctx context.Context, in storage.NewMessage) (*models.Message, error) {
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot message yourself")
	}
	message := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Where("id IN ?", []uint{in.SenderID, in.ReceiverID}).Count(&users).Error; err != nil {
			return models.NewInternalError(err)
		}
		if users != 2 {
			return models.NewValidationError("Unknown user")
		}
		if err := tx.Create(message).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (s *GormStore) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := s.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

func (s *GormStore) ListMessages(ctx context.Context, f storage.MessageFilter) ([]models.Message, error) {
	q := s.db.WithContext(ctx).Order("id")
	if f.UserID != nil {
		if f.PeerID != nil {
			q = q.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				*f.UserID, *f.PeerID, *f.PeerID, *f.UserID)
		} else {
			q = q.Where("sender_id = ? OR receiver_id = ?", *f.UserID, *f.UserID)
		}
	}
	var messages []models.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (s *GormStore) MarkMessageRead(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := s.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if !message.IsRead {
		message.IsRead = true
		if err := s.db.WithContext(ctx).Model(&message).UpdateColumn("is_read", true).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return &message, nil
}
