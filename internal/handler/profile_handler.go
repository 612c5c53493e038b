package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/middleware"
	"github.com/noah-isme/roomtalk-api/internal/service"
	"github.com/noah-isme/roomtalk-api/internal/utils"
)

// ProfileHandler provides HTTP endpoints for user profiles.
type ProfileHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

// NewProfileHandler constructs a handler instance.
func NewProfileHandler(service service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register binds the profile routes. Updates operate only on the
// requester's own account.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/:id", h.view)
	router.Put("/", middleware.WithAuth(h.updateOwn, middleware.AuthOptions{RequireUser: true}))
}

func (h *ProfileHandler) view(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Get(withRequestContext(c), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "profile", response)
}

func (h *ProfileHandler) updateOwn(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdateOwn(withRequestContext(c), userIDFromContext(c), payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		if isValidationError(err) || errors.Is(err, service.ErrUsernameTaken) {
			status = fiber.StatusBadRequest
		}
		return utils.Fail(c, status, err.Error(), fiber.Map{"username": payload.Username, "email": payload.Email})
	}

	return utils.SendSuccess(c, "profile updated", response)
}
