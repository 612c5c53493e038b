package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/models"
)

// LikeRepository persists room endorsements.
type LikeRepository interface {
	Exists(ctx context.Context, userID, roomID uint) (bool, error)
	Create(ctx context.Context, like *models.Like) error
	CountForRoom(ctx context.Context, roomID uint) (int64, error)
	ListRoomsLikedBy(ctx context.Context, userID uint) ([]models.Room, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository constructs a GORM-backed repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, userID, roomID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) CountForRoom(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("room_id = ?", roomID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *likeRepository) ListRoomsLikedBy(ctx context.Context, userID uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.WithContext(ctx).Model(&models.Room{}).
		Joins("JOIN likes ON likes.room_id = rooms.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Preload("Host").
		Preload("Topic").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}
