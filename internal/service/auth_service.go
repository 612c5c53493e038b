package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/models"
	"github.com/noah-isme/roomtalk-api/internal/repository"
	"github.com/noah-isme/roomtalk-api/pkg/token"
)

// AuthService exposes registration, login and logout use-cases.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Logout(ctx context.Context, tokenString string) error
}

type authService struct {
	users     repository.UserRepository
	tokens    *token.Manager
	blacklist *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService constructs an auth service.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, blacklist *redis.Client, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, ErrRegistrationInvalid
	}

	username := strings.ToLower(strings.TrimSpace(payload.Username))

	taken, err := s.users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if taken {
		return dto.AuthResponse{}, ErrRegistrationInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(payload.Email),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrRegistrationInvalid
		}
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	username := strings.ToLower(strings.TrimSpace(payload.Username))

	// A missing username is noted but does not short-circuit: the generic
	// credential check below fails safely and both paths converge on the
	// same ErrInvalidCredentials.
	user, lookupErr := s.users.GetByUsername(ctx, username)
	if lookupErr != nil {
		s.logger.Info().Str("username", username).Msg("username does not exist")
	}

	if lookupErr != nil ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout blacklists the presented token until it expires on its own.
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}

	expiry, err := s.tokens.Expiry(tokenString)
	if err != nil {
		// Expired or malformed tokens need no blacklist entry.
		return nil
	}

	ttl := time.Until(expiry)
	if ttl <= 0 {
		return nil
	}

	if s.blacklist == nil {
		return nil
	}

	return s.blacklist.Set(ctx, "blacklist:"+tokenString, 1, ttl).Err()
}

func (s *authService) issue(user models.User) (dto.AuthResponse, error) {
	signed, err := s.tokens.Issue(user.ID, user.Username, user.IsStaff, user.IsSuperuser)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: signed, User: dto.NewUserResponse(user)}, nil
}
