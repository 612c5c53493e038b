package dto

import (
	"time"

	"github.com/noah-isme/roomtalk-api/internal/models"
)

// MessageCreateRequest captures a message posted into a room.
type MessageCreateRequest struct {
	Body string `json:"body" validate:"required,min=1"`
}

// MessageResponse serializes a message with joined author and room names.
type MessageResponse struct {
	ID        uint      `json:"id"`
	RoomID    uint      `json:"room_id"`
	RoomName  string    `json:"room_name,omitempty"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMessageResponse maps a message with optionally preloaded user and room.
func NewMessageResponse(message models.Message) MessageResponse {
	response := MessageResponse{
		ID:        message.ID,
		RoomID:    message.RoomID,
		UserID:    message.UserID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
		UpdatedAt: message.UpdatedAt,
	}
	if message.User != nil {
		response.Username = message.User.Username
	}
	if message.Room != nil {
		response.RoomName = message.Room.Name
	}
	return response
}

// NewMessageResponseSlice maps a slice of messages.
func NewMessageResponseSlice(messages []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewMessageResponse(message))
	}
	return out
}
