package server

import (
  "fmt"
  "net/url"
  "time"

  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/bidex-org/bidex-backend/internal/handlers"
  "github.com/bidex-org/bidex-backend/internal/middleware"
)

type RouterConfig struct {
  AllowedOrigins        []string
  AuthHandler           *handlers.AuthHandler
  AuthMiddleware        *middleware.AuthMiddleware
  ChatHandler           *handlers.ChatHandler
  BookingHandler        *handlers.BookingHandler
  MixtapeHandler        *handlers.MixtapeHandler
  ConversationHandler   *handlers.ConversationHandler
  WsHandler             gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.New()
  router.Use(gin.LoggerWithFormatter(accessLogLine), gin.Recovery())

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  router.Use(cors.New(cors.Config{
    AllowOrigins:     cfg.AllowedOrigins,
    AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
    MaxAge:           12 * time.Hour,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api")
  {
    api.POST("/login", cfg.AuthHandler.Login)

    api.POST("/chat/conversations", cfg.ChatHandler.StartConversation)
    api.POST("/chat/messages", cfg.ChatHandler.SendMessage)

    api.GET("/bookings/options", cfg.BookingHandler.Options)
    api.POST("/bookings", cfg.BookingHandler.CreateBooking)

    api.GET("/mixtapes", cfg.MixtapeHandler.List)
  }

  //------------------------------------------
  // Signed-in Routes
  //------------------------------------------
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/logout", cfg.AuthHandler.Logout)
  protected.GET("/me", cfg.AuthHandler.Me)

  //------------------------------------------
  // Admin Routes
  //------------------------------------------
  admin := api.Group("/admin")
  admin.Use(cfg.AuthMiddleware.RequireAdmin())
  admin.GET("/mixtapes", cfg.MixtapeHandler.List)
  admin.POST("/mixtapes", cfg.MixtapeHandler.Upload)
  admin.DELETE("/mixtapes/:id", cfg.MixtapeHandler.Delete)
  admin.GET("/conversations", cfg.ConversationHandler.List)
  admin.GET("/conversations/:id", cfg.ConversationHandler.Get)
  admin.GET("/ws", cfg.WsHandler)

  return router
}

// accessLogLine is gin's default access line with any token query value
// masked, since the live feed authenticates through the query string.
func accessLogLine(p gin.LogFormatterParams) string {
  return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
    p.TimeStamp.Format("2006/01/02 - 15:04:05"),
    p.StatusCode,
    p.Latency,
    p.ClientIP,
    p.Method,
    redactToken(p.Path),
    p.ErrorMessage,
  )
}

func redactToken(path string) string {
  u, err := url.Parse(path)
  if err != nil {
    return path
  }
  q := u.Query()
  if !q.Has("token") {
    return path
  }
  q.Set("token", "REDACTED")
  u.RawQuery = q.Encode()
  return u.String()
}
