package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/middleware"
	"github.com/noah-isme/roomtalk-api/internal/service"
	"github.com/noah-isme/roomtalk-api/internal/utils"
)

// MessageHandler provides HTTP endpoints for message deletion and the
// staff activity feed.
type MessageHandler struct {
	service service.MessageService
	logger  zerolog.Logger
}

// NewMessageHandler constructs a handler instance.
func NewMessageHandler(service service.MessageService, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger.With().Str("component", "message_handler").Logger(),
	}
}

// Register binds the message routes.
func (h *MessageHandler) Register(router fiber.Router) {
	router.Delete("/:id", middleware.WithAuth(h.delete, middleware.AuthOptions{RequireUser: true}))
}

// RegisterActivity binds the staff-only activity feed.
func (h *MessageHandler) RegisterActivity(router fiber.Router) {
	router.Get("/", middleware.WithAuth(h.activity, middleware.AuthOptions{RequireStaff: true}))
}

func (h *MessageHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	err = h.service.Delete(withRequestContext(c), uint(id), userIDFromContext(c), isSuperuserFromContext(c))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrNotOwner) {
			status = fiber.StatusForbidden
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			status = fiber.StatusNotFound
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccess(c, "message deleted", nil)
}

func (h *MessageHandler) activity(c *fiber.Ctx) error {
	messages, err := h.service.RecentActivity(withRequestContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "recent activity", messages)
}
