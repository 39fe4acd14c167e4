package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/treffchat/treffchat/internal/api"
	"github.com/treffchat/treffchat/internal/authz"
	"github.com/treffchat/treffchat/internal/cache"
	"github.com/treffchat/treffchat/internal/config"
	"github.com/treffchat/treffchat/internal/db"
	"github.com/treffchat/treffchat/internal/middleware"
	"github.com/treffchat/treffchat/internal/observ"
	"github.com/treffchat/treffchat/internal/repository/postgres"
	"github.com/treffchat/treffchat/internal/service"
	"go.uber.org/zap"
)

const profileCacheTTL = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no request deadline; Background() is fine here.
	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedChannels(ctx); err != nil {
		return fmt.Errorf("seed channels: %w", err)
	}

	// Redis is optional: without it the profile cache degrades to a
	// pass-through and every lookup hits Postgres.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info("redis connected")
	} else {
		logger.Info("no REDIS_URL set, profile cache disabled")
	}

	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	profileRepo := postgres.NewProfileStore(pool)
	channelRepo := postgres.NewChannelStore(pool)
	membershipRepo := postgres.NewMembershipStore(pool)
	conversationRepo := postgres.NewConversationStore(pool)
	convMembershipRepo := postgres.NewConversationMembershipStore(pool)
	messageRepo := postgres.NewMessageStore(pool)

	profileCache := cache.NewProfileCache(redisClient, profileCacheTTL, logger)
	directory := service.NewProfileDirectory(profileRepo, profileCache)

	channelGuard := authz.NewChannelScope(membershipRepo)
	conversationGuard := authz.NewConversationScope(convMembershipRepo)

	channelSvc := service.NewChannelService(channelRepo, membershipRepo)
	conversationSvc := service.NewConversationService(conversationRepo, convMembershipRepo, messageRepo, userRepo, directory)
	messageSvc := service.NewMessageService(messageRepo, channelGuard, conversationGuard, directory)
	profileSvc := service.NewProfileService(userRepo, profileRepo, directory)
	onboardingSvc := service.NewOnboardingService(userRepo, profileRepo, channelRepo, membershipRepo)

	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	channelHandler := api.NewChannelHandler(channelSvc, logger)
	conversationHandler := api.NewConversationHandler(conversationSvc, logger)
	messageHandler := api.NewMessageHandler(messageSvc, logger)
	profileHandler := api.NewProfileHandler(profileSvc, logger)
	onboardingHandler := api.NewOnboardingHandler(onboardingSvc, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Public, no token needed. Health stays open for load balancers.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	srv.POST("/v1/auth/signup", authHandler.Signup)
	srv.POST("/v1/auth/login", authHandler.Login)
	srv.GET("/v1/directory/channels", channelHandler.ListByType)
	srv.GET("/v1/directory/channels/:slug", channelHandler.GetBySlug)
	srv.GET("/v1/profiles/:userId", profileHandler.GetByUserID)

	// Personalized reads: a valid token identifies the caller, its
	// absence yields empty/null results rather than a 401. The caller's
	// own resources live under /me so they never collide with the :id
	// routes below.
	reads := srv.Group("/v1", middleware.AuthOptional(cfg.JWTSecret))
	reads.GET("/auth/me", authHandler.Me)
	reads.GET("/me/channels", channelHandler.ListJoined)
	reads.GET("/me/channels/available", channelHandler.ListAvailable)
	reads.GET("/conversations", conversationHandler.List)
	reads.GET("/me/profile", profileHandler.Me)
	reads.GET("/users/search", profileHandler.Search)

	// Mutations and message history: token required.
	writes := srv.Group("/v1", middleware.Auth(cfg.JWTSecret))
	writes.POST("/channels/:id/join", channelHandler.Join)
	writes.POST("/channels/:id/leave", channelHandler.Leave)
	writes.GET("/channels/:id/messages", messageHandler.ListByChannel)
	writes.POST("/conversations", conversationHandler.GetOrCreate)
	writes.GET("/conversations/:id/messages", messageHandler.ListByConversation)
	writes.POST("/messages", messageHandler.Send)
	writes.PATCH("/me/profile", profileHandler.Update)
	writes.POST("/onboarding/ensure-defaults", onboardingHandler.EnsureDefaults)

	logger.Info("starting treffchat",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
