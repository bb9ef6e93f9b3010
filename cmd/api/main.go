package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/kawa-mspr/auth-service/docs" // Swagger docs (generated)
	"github.com/kawa-mspr/auth-service/internal/auth"
	"github.com/kawa-mspr/auth-service/internal/cache"
	"github.com/kawa-mspr/auth-service/internal/config"
	"github.com/kawa-mspr/auth-service/internal/database"
	"github.com/kawa-mspr/auth-service/internal/email"
	httpServer "github.com/kawa-mspr/auth-service/internal/http"
	"github.com/kawa-mspr/auth-service/internal/logging"
	"github.com/kawa-mspr/auth-service/internal/user"
)

// @title           Auth Service API
// @version         1.0
// @description     Authentication and user-account service: registration, login, token verification, and account CRUD.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting auth service",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := database.Connect(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	userCache := cache.New(redisClient, "user:", cfg.Redis.CacheTTL)
	userRepo := user.NewRepository(db)
	hasher := auth.NewBcryptHasher()

	tokenService, err := auth.NewPasetoService(cfg.Auth.PasetoKey, cfg.Auth.TokenDuration)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	var mailer auth.WelcomeMailer
	if cfg.Email.Enabled() {
		mailer = email.NewService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
		)
	} else {
		logger.Warn("SMTP not configured, welcome emails disabled")
	}

	authService := auth.NewService(userRepo, hasher, tokenService, mailer, logger)
	userService := user.NewService(userRepo, hasher, userCache, logger)

	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	authMiddleware := auth.NewMiddleware(tokenService)

	router := httpServer.NewRouter(cfg, authHandler, userHandler, authMiddleware, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRedis initializes the Redis connection used by the user-view cache.
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
