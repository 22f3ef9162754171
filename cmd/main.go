package main

import (
  "context"
  "fmt"
  "os"

  "github.com/redis/go-redis/v9"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/db"
  "github.com/bidex-org/bidex-backend/internal/handlers"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/middleware"
  "github.com/bidex-org/bidex-backend/internal/repos"
  "github.com/bidex-org/bidex-backend/internal/seed"
  "github.com/bidex-org/bidex-backend/internal/server"
  "github.com/bidex-org/bidex-backend/internal/services"
  "github.com/bidex-org/bidex-backend/internal/socket"
)

func main() {
  ctx := context.Background()

  // Config Setup
  cfg, err := config.Load()
  if err != nil {
    fmt.Printf("failed to load config: %v\n", err)
    os.Exit(1)
  }

  // Logger Setup
  log, err := logger.New(cfg.LogMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()
  log.Debug("Config loaded for Main :)",
    "port", cfg.Port,
    "allowedOrigins", cfg.AllowedOrigins,
    "redisAddress", cfg.Redis.Address,
    "geminiModel", cfg.Gemini.Model,
  )

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(cfg.Postgres, cfg.LogMode, log)
  if err != nil {
    log.Error("Fatal error: Cannot connect to Postgres", "error", err)
    os.Exit(1)
  }
  defer postgresService.Close()
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  adminRepo := repos.NewAdminRepo(thePG, log)
  mixtapeRepo := repos.NewMixtapeRepo(thePG, log)
  conversationRepo := repos.NewConversationRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Redis Setup
  log.Info("Setting Up Redis From Main Now...")
  redisClient := redis.NewClient(&redis.Options{
    Addr:     cfg.Redis.Address,
    Password: cfg.Redis.Password,
  })
  redisUp := true
  if err := redisClient.Ping(ctx).Err(); err != nil {
    log.Warn("Redis unreachable; using in-memory chat sessions and a single-node live feed", "error", err)
    redisUp = false
  }
  defer redisClient.Close()

  var sessions services.SessionStore
  if redisUp {
    sessions = services.NewRedisSessionStore(redisClient, cfg.Redis.SessionTTL, log)
  } else {
    sessions = services.NewMemorySessionStore(cfg.Redis.SessionTTL)
  }

  // Websocket Setup
  log.Info("Setting Up Websocket Hub From Main Now :)")
  wsHub := socket.NewHub(log)
  var redisPubSub *socket.RedisPubSub
  if redisUp {
    redisPubSub = socket.NewRedisPubSub(log, redisClient, cfg.Redis.Channel)
    if err := redisPubSub.StartSubscriber(wsHub); err != nil {
      log.Warn("Failed to subscribe to Redis pub/sub", "error", err)
      redisPubSub = nil
    } else {
      wsHub.SetRedisPubSub(redisPubSub)
      log.Info("Redis pubsub is active!")
    }
  }
  log.Info("Websocket Hub Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  completionService := services.NewGeminiService(cfg.Gemini, log)
  emailService, err := services.NewEmailService(cfg.SendGrid, log)
  if err != nil {
    log.Warn("Could not init EmailService; transcript exports will be dropped", "error", err)
    emailService = services.NopEmailService{Log: log}
  }
  var textService services.TextService
  if ts, err := services.NewTextService(cfg.Twilio, log); err != nil {
    log.Warn("Could not init TextService; staff SMS alerts disabled", "error", err)
  } else {
    textService = ts
  }
  bucketService, err := services.NewBucketService(ctx, cfg.Storage, log)
  if err != nil {
    log.Error("Fatal error: Cannot init BucketService", "error", err)
    os.Exit(1)
  }
  coverService, err := services.NewCoverService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init CoverService", "error", err)
    os.Exit(1)
  }
  chatService := services.NewChatService(log, conversationRepo, sessions, completionService, emailService, textService, wsHub, services.ChatServiceConfig{
    WhatsAppNumber: cfg.Handoff.WhatsAppNumber,
    RedirectDelay:  cfg.Handoff.RedirectDelay,
  })
  bookingService := services.NewBookingService(log, cfg.Handoff.WhatsAppNumber)
  mixtapeService := services.NewMixtapeService(log, mixtapeRepo, bucketService, coverService, services.MixtapeServiceConfig{
    AudioBucket:     cfg.Storage.AudioBucket,
    ThumbnailBucket: cfg.Storage.ThumbnailBucket,
  })
  conversationService := services.NewConversationService(log, conversationRepo)
  authService := services.NewAuthService(log, userRepo, userTokenRepo, adminRepo, cfg.Auth.JWTSecretKey, cfg.Auth.AccessTTL())
  log.Info("Services Set Up From Main Successful :)")

  // Seed Setup
  log.Info("Attempting to Seed The Postgres From Main now...")
  if err := seed.SeedAll(ctx, cfg.Seed, authService, log); err != nil {
    log.Warn("Failed to seed data :(", "error", err)
  }

  //  Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService)
  chatHandler := handlers.NewChatHandler(chatService)
  bookingHandler := handlers.NewBookingHandler(bookingService)
  mixtapeHandler := handlers.NewMixtapeHandler(log, mixtapeService)
  conversationHandler := handlers.NewConversationHandler(conversationService)
  wsHandler := handlers.WsHandler(wsHub, log, cfg.AllowedOrigins)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AllowedOrigins:       cfg.AllowedOrigins,
    AuthHandler:          authHandler,
    AuthMiddleware:       authMiddleware,
    ChatHandler:          chatHandler,
    BookingHandler:       bookingHandler,
    MixtapeHandler:       mixtapeHandler,
    ConversationHandler:  conversationHandler,
    WsHandler:            wsHandler,
  })
  log.Info("Router Set Up From Main Successful :)")

  log.Info("Server listening", "port", cfg.Port)
  if err := router.Run(":" + cfg.Port); err != nil {
    log.Error("Server failed", "error", err)
  }

  // On Shutdown
  if redisPubSub != nil {
    redisPubSub.Stop()
  }
}
