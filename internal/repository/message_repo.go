package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/models"
)

// MessageRepository persists room messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (models.Message, error)
	ListForRoom(ctx context.Context, roomID uint) ([]models.Message, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Message, error)
	Recent(ctx context.Context, limit int) ([]models.Message, error)
	RecentFiltered(ctx context.Context, query string, limit int) ([]models.Message, error)
	Delete(ctx context.Context, id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs a GORM-backed repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

const messageOrder = "messages.updated_at DESC, messages.created_at DESC"

// Create stores the message and bumps the parent room's updated_at so the
// room moves to the front of default-ordered listings.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}

		return tx.Model(&models.Room{}).
			Where("id = ?", message.RoomID).
			UpdateColumn("updated_at", message.CreatedAt).
			Error
	})
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		First(&message, id).Error; err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func (r *messageRepository) ListForRoom(ctx context.Context, roomID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order(messageOrder).
		Preload("User").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) ListForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(messageOrder).
		Preload("User").
		Preload("Room").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) Recent(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 5
	}

	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Order(messageOrder).
		Limit(limit).
		Preload("User").
		Preload("Room").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// RecentFiltered returns the most recent messages whose room or room topic
// matches the query, case-insensitively.
func (r *messageRepository) RecentFiltered(ctx context.Context, query string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var messages []models.Message
	if err := r.db.WithContext(ctx).Model(&models.Message{}).
		Joins("LEFT JOIN rooms ON rooms.id = messages.room_id").
		Joins("LEFT JOIN topics ON topics.id = rooms.topic_id").
		Where("LOWER(COALESCE(topics.name, '')) LIKE ? OR LOWER(rooms.name) LIKE ?", pattern, pattern).
		Order(messageOrder).
		Limit(limit).
		Preload("User").
		Preload("Room").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
