package service

import (
	"context"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/repository"
)

// TopicService exposes the topic listing.
type TopicService interface {
	List(ctx context.Context, query string) ([]dto.TopicResponse, error)
}

type topicService struct {
	topics repository.TopicRepository
}

// NewTopicService constructs a topic service.
func NewTopicService(topics repository.TopicRepository) TopicService {
	return &topicService{topics: topics}
}

func (s *topicService) List(ctx context.Context, query string) ([]dto.TopicResponse, error) {
	topics, err := s.topics.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return dto.NewTopicResponseSlice(topics), nil
}
