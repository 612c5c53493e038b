package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/middleware"
	"github.com/noah-isme/roomtalk-api/internal/service"
	"github.com/noah-isme/roomtalk-api/internal/utils"
)

// AuthHandler provides HTTP endpoints for registration, login and logout.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs a handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register binds the auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	// Logged-in users cannot register again.
	if userIDFromContext(c) != 0 {
		return utils.SendError(c, fiber.StatusConflict, "already authenticated")
	}

	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(withRequestContext(c), payload)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationInvalid) {
			// One combined message; the submitted username is echoed back so
			// the form can be re-displayed.
			return utils.Fail(c, fiber.StatusBadRequest, err.Error(), fiber.Map{"username": payload.Username})
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	if userIDFromContext(c) != 0 {
		return utils.SendError(c, fiber.StatusConflict, "already authenticated")
	}

	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(withRequestContext(c), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.Fail(c, fiber.StatusUnauthorized, err.Error(), fiber.Map{"username": payload.Username})
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "logged in", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.service.Logout(withRequestContext(c), middleware.BearerToken(c)); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "logged out", nil)
}
