package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/repository"
)

const activityFeedLimit = 2

// MessageService exposes message deletion and the staff activity feed.
type MessageService interface {
	Delete(ctx context.Context, id, actorID uint, actorSuperuser bool) error
	RecentActivity(ctx context.Context) ([]dto.MessageResponse, error)
}

type messageService struct {
	messages repository.MessageRepository
	logger   zerolog.Logger
}

// NewMessageService constructs a message service.
func NewMessageService(messages repository.MessageRepository, logger zerolog.Logger) MessageService {
	return &messageService{
		messages: messages,
		logger:   logger.With().Str("component", "message_service").Logger(),
	}
}

// Delete removes a message. Superusers may delete any message; everyone else
// only their own.
func (s *messageService) Delete(ctx context.Context, id, actorID uint, actorSuperuser bool) error {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actorSuperuser && message.UserID != actorID {
		return ErrNotOwner
	}

	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("message_id", id).Uint("actor_id", actorID).Msg("message deleted")

	return nil
}

// RecentActivity returns the most recent messages across all rooms.
func (s *messageService) RecentActivity(ctx context.Context) ([]dto.MessageResponse, error) {
	messages, err := s.messages.Recent(ctx, activityFeedLimit)
	if err != nil {
		return nil, err
	}
	return dto.NewMessageResponseSlice(messages), nil
}
