package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/platewise/staffhub-backend/internal/api"
	"github.com/platewise/staffhub-backend/internal/auth"
	"github.com/platewise/staffhub-backend/internal/aws"
	"github.com/platewise/staffhub-backend/internal/config"
	"github.com/platewise/staffhub-backend/internal/database"
	"github.com/platewise/staffhub-backend/internal/logging"
	"github.com/platewise/staffhub-backend/internal/notifications"
	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/queue"
)

type Container struct {
	Config        *config.Config
	Database      *database.Database
	Queue         *queue.TaskQueue
	RedisClient   *redis.Client
	Engine        *permissions.Engine
	AuthService   *auth.AuthService
	EmailService  *aws.SESService
	S3Service     *aws.S3Service
	Notifier      *notifications.NotificationDispatcher
	Authenticator *auth.Authenticator
	Server        *api.Server
	Worker        *queue.Worker
}

func New(cfg config.Config) (*Container, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	taskQueue, err := queue.NewQueue(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	// Two separate Redis connection pools are used: the asynq task
	// queue manages its own connection, and this client is used
	// for auth state (OTP hashes, refresh tokens).
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	jwtService, err := auth.NewJWTService([]byte(cfg.JWT.SigningKey), cfg.JWT.Issuer, cfg.JWT.Expiry)
	if err != nil {
		return nil, err
	}

	authService := auth.NewAuthService(redisClient, jwtService, db.Store(), cfg.Auth)
	authenticator := auth.NewAuthenticator(jwtService, db.Store())

	engine := permissions.NewEngine(db.Store())

	sesService, err := aws.NewSESService(context.Background(), cfg.AWS)
	if err != nil {
		return nil, err
	}

	s3Service, err := aws.NewS3Service(cfg.AWS)
	if err != nil {
		return nil, err
	}

	// localstack-specific config (buckets are not managed by app in prod)
	if cfg.AWS.EndpointURL != "" {
		if err := s3Service.CreateBucket(context.Background()); err != nil {
			logging.Info("S3 bucket creation attempted", "bucket", cfg.AWS.Bucket, "result", err)
		}
	}

	templates, err := notifications.DefaultTemplates()
	if err != nil {
		return nil, fmt.Errorf("loading notification templates: %w", err)
	}
	notificationSvc := notifications.NewNotificationService(db.Store())
	notifier := notifications.NewNotificationDispatcher(notificationSvc, taskQueue, templates, notifications.NewEmailLookupFunc(db.Store()))

	worker := queue.NewWorker(&cfg.Redis, sesService)

	server := api.NewServer(db, engine, authService, jwtService, authenticator, notifier, taskQueue, s3Service, cfg.Auth)

	logging.Info("Connected to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port)

	return &Container{
		Config:        &cfg,
		Database:      db,
		Queue:         taskQueue,
		RedisClient:   redisClient,
		Engine:        engine,
		AuthService:   authService,
		EmailService:  sesService,
		S3Service:     s3Service,
		Notifier:      notifier,
		Authenticator: authenticator,
		Server:        server,
		Worker:        worker,
	}, nil
}

func (c *Container) Cleanup() {
	if c.Queue != nil {
		c.Queue.Close()
		logging.Info("Queue client closed")
	}
	if c.Worker != nil {
		c.Worker.Close()
		logging.Info("Worker closed")
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
		logging.Info("Redis client closed")
	}
	if c.Database != nil {
		c.Database.Close()
		logging.Info("Database connection closed")
	}
}
