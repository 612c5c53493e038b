package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/models"
	"github.com/noah-isme/roomtalk-api/internal/repository"
)

const (
	homeVersionKey  = "home:ver"
	recentFeedLimit = 5
	topTopicsLimit  = 5
)

// RoomService exposes room listing, detail and mutation use-cases.
type RoomService interface {
	Home(ctx context.Context, req dto.HomeRequest) (dto.HomeResponse, error)
	Detail(ctx context.Context, id uint) (dto.RoomDetailResponse, error)
	Create(ctx context.Context, hostID uint, payload dto.RoomCreateRequest) (dto.RoomResponse, error)
	Update(ctx context.Context, id, actorID uint, payload dto.RoomUpdateRequest) (dto.RoomResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
	PostMessage(ctx context.Context, roomID, userID uint, payload dto.MessageCreateRequest) (dto.MessageResponse, error)
	Like(ctx context.Context, roomID, userID uint) error
}

type roomService struct {
	rooms     repository.RoomRepository
	topics    repository.TopicRepository
	messages  repository.MessageRepository
	likes     repository.LikeRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	pageSize  int
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewRoomService constructs a room service. The cache client may be nil, in
// which case home listings are always computed fresh.
func NewRoomService(rooms repository.RoomRepository, topics repository.TopicRepository, messages repository.MessageRepository, likes repository.LikeRepository, cache *redis.Client, cacheTTL time.Duration, pageSize int, validate *validator.Validate, logger zerolog.Logger) RoomService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	if pageSize <= 0 {
		pageSize = 6
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &roomService{
		rooms:     rooms,
		topics:    topics,
		messages:  messages,
		likes:     likes,
		cache:     cache,
		cacheTTL:  cacheTTL,
		pageSize:  pageSize,
		validator: validate,
		sanitizer: policy,
		logger:    logger.With().Str("component", "room_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/roomtalk-api/internal/service/room"),
	}
}

func (s *roomService) Home(ctx context.Context, req dto.HomeRequest) (dto.HomeResponse, error) {
	query := strings.TrimSpace(req.Query)
	page := req.Page
	if page < 1 {
		page = 1
	}

	total, err := s.rooms.Count(ctx, query)
	if err != nil {
		return dto.HomeResponse{}, err
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	// Pages past the end fall back to the last page, never an error.
	if page > totalPages {
		page = totalPages
	}

	if cached, ok := s.fetchHomeCache(ctx, query, page); ok {
		cached.CacheHit = true
		return cached, nil
	}

	rooms, err := s.rooms.List(ctx, repository.RoomFilter{
		Query:  query,
		Offset: (page - 1) * s.pageSize,
		Limit:  s.pageSize,
	})
	if err != nil {
		return dto.HomeResponse{}, err
	}

	roomCount, err := s.rooms.CountAll(ctx)
	if err != nil {
		return dto.HomeResponse{}, err
	}

	recent, err := s.messages.RecentFiltered(ctx, query, recentFeedLimit)
	if err != nil {
		return dto.HomeResponse{}, err
	}

	topics, err := s.topics.ListTop(ctx, topTopicsLimit)
	if err != nil {
		return dto.HomeResponse{}, err
	}

	response := dto.HomeResponse{
		Rooms: dto.NewRoomSummaryResponseSlice(rooms),
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   s.pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
		RoomCount:      roomCount,
		RecentMessages: dto.NewMessageResponseSlice(recent),
		Topics:         dto.NewTopicResponseSlice(topics),
	}

	s.writeHomeCache(ctx, query, page, response)

	return response, nil
}

func (s *roomService) Detail(ctx context.Context, id uint) (dto.RoomDetailResponse, error) {
	room, err := s.rooms.GetDetail(ctx, id)
	if err != nil {
		return dto.RoomDetailResponse{}, err
	}

	messages, err := s.messages.ListForRoom(ctx, id)
	if err != nil {
		return dto.RoomDetailResponse{}, err
	}

	likeCount, err := s.likes.CountForRoom(ctx, id)
	if err != nil {
		return dto.RoomDetailResponse{}, err
	}

	return dto.RoomDetailResponse{
		Room:         dto.NewRoomSummaryResponse(room),
		Messages:     dto.NewMessageResponseSlice(messages),
		Participants: dto.NewUserResponseSlice(room.Participants),
		LikeCount:    likeCount,
	}, nil
}

func (s *roomService) Create(ctx context.Context, hostID uint, payload dto.RoomCreateRequest) (dto.RoomResponse, error) {
	// Trim before validating so whitespace-only names and topics fail the
	// min length rule instead of slipping through as empty strings.
	payload.Topic = strings.TrimSpace(payload.Topic)
	payload.Name = strings.TrimSpace(payload.Name)

	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomResponse{}, err
	}

	topic, err := s.topics.GetOrCreate(ctx, payload.Topic)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "room.create", trace.WithAttributes(
		attribute.Int("room.host_id", int(hostID)),
		attribute.String("room.topic", topic.Name),
	))
	defer span.End()

	room := models.Room{
		HostID:      &hostID,
		TopicID:     &topic.ID,
		Name:        payload.Name,
		Description: strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
	}

	if err := s.rooms.Create(spanCtx, &room); err != nil {
		span.RecordError(err)
		return dto.RoomResponse{}, err
	}

	s.logger.Info().Uint("room_id", room.ID).Uint("host_id", hostID).Msg("room created")
	s.bumpHomeVersion(ctx)

	return dto.NewRoomResponse(room), nil
}

func (s *roomService) Update(ctx context.Context, id, actorID uint, payload dto.RoomUpdateRequest) (dto.RoomResponse, error) {
	payload.Topic = strings.TrimSpace(payload.Topic)
	payload.Name = strings.TrimSpace(payload.Name)

	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomResponse{}, err
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	if err := s.authorizeHost(room, actorID); err != nil {
		return dto.RoomResponse{}, err
	}

	topic, err := s.topics.GetOrCreate(ctx, payload.Topic)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	room.Name = payload.Name
	room.TopicID = &topic.ID
	room.Description = strings.TrimSpace(s.sanitizer.Sanitize(payload.Description))

	if err := s.rooms.Update(ctx, &room); err != nil {
		return dto.RoomResponse{}, err
	}

	s.bumpHomeVersion(ctx)

	return dto.NewRoomResponse(room), nil
}

func (s *roomService) Delete(ctx context.Context, id, actorID uint) error {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeHost(room, actorID); err != nil {
		return err
	}

	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("room_id", id).Uint("actor_id", actorID).Msg("room deleted")
	s.bumpHomeVersion(ctx)

	return nil
}

func (s *roomService) PostMessage(ctx context.Context, roomID, userID uint, payload dto.MessageCreateRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}

	body := strings.TrimSpace(s.sanitizer.Sanitize(payload.Body))
	if body == "" {
		return dto.MessageResponse{}, fmt.Errorf("message body empty after sanitization")
	}

	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return dto.MessageResponse{}, err
	}

	message := models.Message{UserID: userID, RoomID: roomID, Body: body}
	if err := s.messages.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, err
	}

	if err := s.rooms.AddParticipant(ctx, roomID, userID); err != nil {
		return dto.MessageResponse{}, err
	}

	s.bumpHomeVersion(ctx)

	// Reload to pick up author and room names for the response.
	if stored, err := s.messages.GetByID(ctx, message.ID); err == nil {
		message = stored
	}

	return dto.NewMessageResponse(message), nil
}

// Like records a one-per-user endorsement. The existence check and the
// create are not atomic; concurrent submissions can slip through, matching
// the historical behavior.
func (s *roomService) Like(ctx context.Context, roomID, userID uint) error {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return err
	}

	exists, err := s.likes.Exists(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyLiked
	}

	if err := s.likes.Create(ctx, &models.Like{UserID: userID, RoomID: roomID}); err != nil {
		return err
	}

	if err := s.rooms.AddParticipant(ctx, roomID, userID); err != nil {
		return err
	}

	s.bumpHomeVersion(ctx)

	return nil
}

func (s *roomService) authorizeHost(room models.Room, actorID uint) error {
	if room.HostID == nil || *room.HostID != actorID {
		return ErrNotOwner
	}
	return nil
}

func (s *roomService) homeCacheKey(ctx context.Context, query string, page int) string {
	version := "0"
	if v, err := s.cache.Get(ctx, homeVersionKey).Result(); err == nil {
		version = v
	}
	return fmt.Sprintf("home:v%s:q=%s:page=%d", version, strings.ToLower(query), page)
}

func (s *roomService) fetchHomeCache(ctx context.Context, query string, page int) (dto.HomeResponse, bool) {
	if s.cache == nil {
		return dto.HomeResponse{}, false
	}

	raw, err := s.cache.Get(ctx, s.homeCacheKey(ctx, query, page)).Result()
	if err != nil {
		return dto.HomeResponse{}, false
	}

	var cached dto.HomeResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return dto.HomeResponse{}, false
	}

	return cached, true
}

func (s *roomService) writeHomeCache(ctx context.Context, query string, page int, response dto.HomeResponse) {
	if s.cache == nil {
		return
	}

	encoded, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, s.homeCacheKey(ctx, query, page), encoded, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write home cache")
	}
}

// bumpHomeVersion invalidates every cached home page by rotating the key
// prefix; stale entries expire with their TTL.
func (s *roomService) bumpHomeVersion(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, homeVersionKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to bump home cache version")
	}
}
