package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/models"
)

// TopicRepository persists topic labels. Topics are only ever created, never
// deleted; room creation and update resolve topics by name.
type TopicRepository interface {
	GetOrCreate(ctx context.Context, name string) (models.Topic, error)
	List(ctx context.Context, query string) ([]models.Topic, error)
	ListTop(ctx context.Context, limit int) ([]models.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository constructs a GORM-backed repository.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) GetOrCreate(ctx context.Context, name string) (models.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Topic{}, fmt.Errorf("topic name must not be empty")
	}

	// A struct condition drops zero values and would match any row for a
	// blank name, so the lookup uses an explicit condition.
	var topic models.Topic
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Attrs(models.Topic{Name: name}).
		FirstOrCreate(&topic).Error; err != nil {
		return models.Topic{}, err
	}
	return topic, nil
}

func (r *topicRepository) List(ctx context.Context, query string) ([]models.Topic, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var topics []models.Topic
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) ListTop(ctx context.Context, limit int) ([]models.Topic, error) {
	if limit <= 0 {
		limit = 5
	}

	var topics []models.Topic
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
