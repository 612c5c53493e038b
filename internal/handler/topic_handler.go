package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/roomtalk-api/internal/service"
	"github.com/noah-isme/roomtalk-api/internal/utils"
)

// TopicHandler provides the topic listing endpoint.
type TopicHandler struct {
	service service.TopicService
	logger  zerolog.Logger
}

// NewTopicHandler constructs a handler instance.
func NewTopicHandler(service service.TopicService, logger zerolog.Logger) *TopicHandler {
	return &TopicHandler{
		service: service,
		logger:  logger.With().Str("component", "topic_handler").Logger(),
	}
}

// Register binds the topic routes.
func (h *TopicHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
}

func (h *TopicHandler) list(c *fiber.Ctx) error {
	topics, err := h.service.List(withRequestContext(c), c.Query("q"))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "topics", topics)
}
