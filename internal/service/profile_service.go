package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/repository"
)

// ProfileService exposes profile views and self-updates.
type ProfileService interface {
	Get(ctx context.Context, userID uint) (dto.ProfileResponse, error)
	UpdateOwn(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
}

type profileService struct {
	users     repository.UserRepository
	rooms     repository.RoomRepository
	messages  repository.MessageRepository
	likes     repository.LikeRepository
	topics    repository.TopicRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProfileService constructs a profile service.
func NewProfileService(users repository.UserRepository, rooms repository.RoomRepository, messages repository.MessageRepository, likes repository.LikeRepository, topics repository.TopicRepository, validate *validator.Validate, logger zerolog.Logger) ProfileService {
	return &profileService{
		users:     users,
		rooms:     rooms,
		messages:  messages,
		likes:     likes,
		topics:    topics,
		validator: validate,
		logger:    logger.With().Str("component", "profile_service").Logger(),
	}
}

// Get bundles the target user's rooms, liked rooms, messages and the full
// topic list, unfiltered and unpaginated.
func (s *profileService) Get(ctx context.Context, userID uint) (dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	rooms, err := s.rooms.ListByHost(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	liked, err := s.likes.ListRoomsLikedBy(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	messages, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	topics, err := s.topics.List(ctx, "")
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	return dto.ProfileResponse{
		User:       dto.NewUserResponse(user),
		Rooms:      dto.NewRoomSummaryResponseSlice(rooms),
		LikedRooms: dto.NewRoomSummaryResponseSlice(liked),
		Messages:   dto.NewMessageResponseSlice(messages),
		Topics:     dto.NewTopicResponseSlice(topics),
	}, nil
}

// UpdateOwn edits the requester's own account. There is no target id to
// tamper with; the identity comes from the verified token.
func (s *profileService) UpdateOwn(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	username := strings.ToLower(strings.TrimSpace(payload.Username))

	taken, err := s.users.UsernameTaken(ctx, username, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrUsernameTaken
	}

	user.Username = username
	user.Email = strings.TrimSpace(payload.Email)

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}
