package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/models"
)

// RoomFilter narrows and pages room listings. An empty Query matches every
// room; the search is a case-insensitive substring match across topic name,
// room name, description and host username.
type RoomFilter struct {
	Query  string
	Offset int
	Limit  int
}

// RoomRepository persists rooms and their participant sets.
type RoomRepository interface {
	List(ctx context.Context, filter RoomFilter) ([]models.Room, error)
	Count(ctx context.Context, query string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uint) (models.Room, error)
	GetDetail(ctx context.Context, id uint) (models.Room, error)
	ListByHost(ctx context.Context, hostID uint) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint) error
	AddParticipant(ctx context.Context, roomID, userID uint) error
	Touch(ctx context.Context, roomID uint, at time.Time) error
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository constructs a GORM-backed repository.
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

const roomOrder = "rooms.updated_at DESC, rooms.created_at DESC"

func roomSearch(db *gorm.DB, query string) *gorm.DB {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	return db.
		Joins("LEFT JOIN topics ON topics.id = rooms.topic_id").
		Joins("LEFT JOIN users ON users.id = rooms.host_id").
		Where(
			"LOWER(COALESCE(topics.name, '')) LIKE ? OR LOWER(rooms.name) LIKE ? OR LOWER(COALESCE(rooms.description, '')) LIKE ? OR LOWER(COALESCE(users.username, '')) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
}

func (r *roomRepository) List(ctx context.Context, filter RoomFilter) ([]models.Room, error) {
	if filter.Limit <= 0 {
		filter.Limit = 6
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var rooms []models.Room
	if err := roomSearch(r.db.WithContext(ctx).Model(&models.Room{}), filter.Query).
		Order(roomOrder).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Preload("Host").
		Preload("Topic").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Count(ctx context.Context, query string) (int64, error) {
	var count int64
	if err := roomSearch(r.db.WithContext(ctx).Model(&models.Room{}), query).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *roomRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Room{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (r *roomRepository) GetDetail(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("Topic").
		Preload("Participants").
		First(&room, id).Error; err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (r *roomRepository) ListByHost(ctx context.Context, hostID uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order(roomOrder).
		Preload("Host").
		Preload("Topic").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// Delete removes a room and everything it owns: messages, likes and the
// participant join rows. Cascading in a transaction keeps tests independent
// of database-level foreign key enforcement.
func (r *roomRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM room_participants WHERE room_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Room{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *roomRepository) AddParticipant(ctx context.Context, roomID, userID uint) error {
	room := models.Room{ID: roomID}
	return r.db.WithContext(ctx).
		Model(&room).
		Omit("Participants.*").
		Association("Participants").
		Append(&models.User{ID: userID})
}

func (r *roomRepository) Touch(ctx context.Context, roomID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		UpdateColumn("updated_at", at).
		Error
}
