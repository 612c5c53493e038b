package dto

import "github.com/noah-isme/roomtalk-api/internal/models"

// TopicResponse serializes a topic label.
type TopicResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewTopicResponse maps a topic model.
func NewTopicResponse(topic models.Topic) TopicResponse {
	return TopicResponse{ID: topic.ID, Name: topic.Name}
}

// NewTopicResponseSlice maps a slice of topics.
func NewTopicResponseSlice(topics []models.Topic) []TopicResponse {
	out := make([]TopicResponse, 0, len(topics))
	for _, topic := range topics {
		out = append(out, NewTopicResponse(topic))
	}
	return out
}
