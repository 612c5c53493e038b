package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/roomtalk-api/internal/config"
	"github.com/noah-isme/roomtalk-api/internal/database"
	"github.com/noah-isme/roomtalk-api/internal/handler"
	"github.com/noah-isme/roomtalk-api/internal/middleware"
	"github.com/noah-isme/roomtalk-api/internal/models"
	"github.com/noah-isme/roomtalk-api/internal/repository"
	"github.com/noah-isme/roomtalk-api/internal/router"
	"github.com/noah-isme/roomtalk-api/internal/service"
	"github.com/noah-isme/roomtalk-api/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Topic{}, &models.Room{}, &models.Message{}, &models.Like{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	authService := service.NewAuthService(userRepo, tokens, redisClient, validate, logger)
	roomService := service.NewRoomService(roomRepo, topicRepo, messageRepo, likeRepo, redisClient, cfg.HomeCacheTTL, cfg.RoomPageSize, validate, logger)
	messageService := service.NewMessageService(messageRepo, logger)
	profileService := service.NewProfileService(userRepo, roomRepo, messageRepo, likeRepo, topicRepo, validate, logger)
	topicService := service.NewTopicService(topicRepo)

	authHandler := handler.NewAuthHandler(authService, logger)
	roomHandler := handler.NewRoomHandler(roomService, logger)
	messageHandler := handler.NewMessageHandler(messageService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	topicHandler := handler.NewTopicHandler(topicService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    authHandler,
		RoomHandler:    roomHandler,
		MessageHandler: messageHandler,
		ProfileHandler: profileHandler,
		TopicHandler:   topicHandler,
		AuthMiddleware: middleware.Authenticate(tokens, middleware.NewRedisBlacklist(redisClient)),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
