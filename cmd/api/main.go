package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/JCWilliams12/TaskTrack/configs"
	"github.com/JCWilliams12/TaskTrack/internal/api"
	"github.com/JCWilliams12/TaskTrack/internal/api/handlers"
	"github.com/JCWilliams12/TaskTrack/internal/apperr"
	"github.com/JCWilliams12/TaskTrack/internal/middleware"
	"github.com/JCWilliams12/TaskTrack/internal/repository"
	"github.com/JCWilliams12/TaskTrack/internal/throttle"
	"github.com/JCWilliams12/TaskTrack/internal/token"
	"github.com/JCWilliams12/TaskTrack/pkg/database"
	"github.com/JCWilliams12/TaskTrack/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()
	if cfg.JWTSecret == "" {
		// Refuse to serve authenticated routes without a signing key.
		log.Fatal("JWT_SECRET is not set")
	}

	client := database.ConnectDB(cfg)
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	logger.SystemLogger.Info("Database connected")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Error creating indexes: %v", err)
	}

	var loginThrottle *throttle.LoginThrottle
	if cfg.RedisAddr != "" {
		redisClient := database.ConnectRedis(cfg)
		defer redisClient.Close()
		loginThrottle = throttle.New(redisClient, 10, time.Minute)
		logger.SystemLogger.Info("Redis connected, login throttle enabled")
	}

	tokens := token.NewService([]byte(cfg.JWTSecret), token.DefaultTTL)
	h := handlers.New(
		repository.NewMongoUserStore(db),
		repository.NewMongoTaskStore(db),
		tokens,
		loginThrottle,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	api.RegisterRoutes(app, h)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	logger.SystemLogger.Info("Application ready", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
