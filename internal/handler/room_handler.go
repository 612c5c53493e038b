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

// RoomHandler provides HTTP endpoints for room listing, detail and mutation.
type RoomHandler struct {
	service service.RoomService
	logger  zerolog.Logger
}

// NewRoomHandler constructs a handler instance.
func NewRoomHandler(service service.RoomService, logger zerolog.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		logger:  logger.With().Str("component", "room_handler").Logger(),
	}
}

// Register binds the room routes. Room creation, update and deletion are
// reserved to staff; posting and liking only require a login.
func (h *RoomHandler) Register(router fiber.Router) {
	router.Get("/", h.home)
	router.Get("/:id", h.detail)
	router.Post("/", middleware.WithAuth(h.create, middleware.AuthOptions{RequireStaff: true}))
	router.Put("/:id", middleware.WithAuth(h.update, middleware.AuthOptions{RequireStaff: true}))
	router.Delete("/:id", middleware.WithAuth(h.delete, middleware.AuthOptions{RequireStaff: true}))
	router.Post("/:id/messages", middleware.WithAuth(h.postMessage, middleware.AuthOptions{RequireUser: true}))
	router.Post("/:id/likes", middleware.WithAuth(h.like, middleware.AuthOptions{RequireUser: true}))
}

func (h *RoomHandler) home(c *fiber.Ctx) error {
	req := dto.HomeRequest{
		Query: c.Query("q"),
		Page:  parsePageQuery(c),
	}

	response, err := h.service.Home(withRequestContext(c), req)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "rooms", response)
}

func (h *RoomHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Detail(withRequestContext(c), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "room not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "room", response)
}

func (h *RoomHandler) create(c *fiber.Ctx) error {
	var payload dto.RoomCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(withRequestContext(c), userIDFromContext(c), payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		if isValidationError(err) {
			status = fiber.StatusBadRequest
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "room created", response)
}

func (h *RoomHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RoomUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(withRequestContext(c), uint(id), userIDFromContext(c), payload)
	if err != nil {
		return h.mutationError(c, err)
	}

	return utils.SendSuccess(c, "room updated", response)
}

func (h *RoomHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(withRequestContext(c), uint(id), userIDFromContext(c)); err != nil {
		return h.mutationError(c, err)
	}

	return utils.SendSuccess(c, "room deleted", nil)
}

func (h *RoomHandler) postMessage(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MessageCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.PostMessage(withRequestContext(c), uint(id), userIDFromContext(c), payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		if isValidationError(err) {
			status = fiber.StatusBadRequest
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			status = fiber.StatusNotFound
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message posted", response)
}

func (h *RoomHandler) like(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Like(withRequestContext(c), uint(id), userIDFromContext(c)); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrAlreadyLiked) {
			status = fiber.StatusConflict
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			status = fiber.StatusNotFound
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "room liked", nil)
}

func (h *RoomHandler) mutationError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotOwner):
		status = fiber.StatusForbidden
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = fiber.StatusNotFound
	case isValidationError(err):
		status = fiber.StatusBadRequest
	}
	return utils.SendError(c, status, err.Error())
}
