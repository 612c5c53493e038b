package dto

import (
	"time"

	"github.com/noah-isme/roomtalk-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// RoomCreateRequest captures the room form. The topic is free text and is
// resolved to an existing topic or creates a new one.
type RoomCreateRequest struct {
	Topic       string `json:"topic" validate:"required,min=1,max=200"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
}

// RoomUpdateRequest overwrites name, topic and description of a room.
type RoomUpdateRequest struct {
	Topic       string `json:"topic" validate:"required,min=1,max=200"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
}

// RoomResponse is the flat, field-for-field representation of a room used at
// the serialization boundary. No nesting, no computed fields.
type RoomResponse struct {
	ID           uint      `json:"id"`
	Host         *uint     `json:"host"`
	Topic        *uint     `json:"topic"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Participants []uint    `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoomSummaryResponse is the listing shape with joined host and topic names.
type RoomSummaryResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	HostID       *uint     `json:"host_id"`
	HostUsername string    `json:"host_username,omitempty"`
	TopicID      *uint     `json:"topic_id"`
	TopicName    string    `json:"topic_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HomeRequest captures home listing query parameters after parsing. Page is
// already defaulted to 1 when the raw value was absent or non-numeric.
type HomeRequest struct {
	Query string
	Page  int
}

// HomeResponse bundles everything the home view renders.
type HomeResponse struct {
	Rooms          []RoomSummaryResponse `json:"rooms"`
	Pagination     PaginationMeta        `json:"pagination"`
	RoomCount      int64                 `json:"room_count"`
	RecentMessages []MessageResponse     `json:"recent_messages"`
	Topics         []TopicResponse       `json:"topics"`
	CacheHit       bool                  `json:"cache_hit"`
}

// RoomDetailResponse bundles a room with its messages, participants and like count.
type RoomDetailResponse struct {
	Room         RoomSummaryResponse `json:"room"`
	Messages     []MessageResponse   `json:"messages"`
	Participants []UserResponse      `json:"participants"`
	LikeCount    int64               `json:"like_count"`
}

// NewRoomResponse maps a room model to its flat representation.
func NewRoomResponse(room models.Room) RoomResponse {
	participants := make([]uint, 0, len(room.Participants))
	for _, user := range room.Participants {
		participants = append(participants, user.ID)
	}

	return RoomResponse{
		ID:           room.ID,
		Host:         room.HostID,
		Topic:        room.TopicID,
		Name:         room.Name,
		Description:  room.Description,
		Participants: participants,
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
}

// NewRoomSummaryResponse maps a room with preloaded host and topic.
func NewRoomSummaryResponse(room models.Room) RoomSummaryResponse {
	summary := RoomSummaryResponse{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		HostID:      room.HostID,
		TopicID:     room.TopicID,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
	if room.Host != nil {
		summary.HostUsername = room.Host.Username
	}
	if room.Topic != nil {
		summary.TopicName = room.Topic.Name
	}
	return summary
}

// NewRoomSummaryResponseSlice maps a slice of rooms.
func NewRoomSummaryResponseSlice(rooms []models.Room) []RoomSummaryResponse {
	out := make([]RoomSummaryResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, NewRoomSummaryResponse(room))
	}
	return out
}
