package middleware

import (
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/gorilla/websocket"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/requestdata"
  "github.com/bidex-org/bidex-backend/internal/services"
)

type AuthMiddleware struct {
  log               *logger.Logger
  authService       services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth resolves the bearer token into request data or aborts with 401.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    if _, ok := am.authenticate(c); !ok {
      return
    }
    c.Next()
  }
}

// RequireAdmin resolves the token and then checks the allowlist: 401 with no
// identity, 403 for a signed-in user who is not an admin. The handler only
// runs once both pass.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
  return func(c *gin.Context) {
    rd, ok := am.authenticate(c)
    if !ok {
      return
    }
    isAdmin, err := am.authService.IsAdmin(c.Request.Context(), rd.UserID)
    if err != nil {
      am.log.Warn("Admin allowlist lookup failed", "userID", rd.UserID, "error", err)
      c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to check admin access"})
      return
    }
    if !isAdmin {
      am.log.Warn("Non-admin hit admin route", "userID", rd.UserID, "path", c.FullPath())
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
      return
    }
    rd.IsAdmin = true
    c.Next()
  }
}

// authenticate attaches the caller's identity to the request context. On
// failure it aborts with 401 and reports false. It never advances the chain.
func (am *AuthMiddleware) authenticate(c *gin.Context) (*requestdata.RequestData, bool) {
  tokenString := extractToken(c)
  if tokenString == "" {
    c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return nil, false
  }
  ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
  if err != nil {
    am.log.Debug("Rejected token", "error", err)
    c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return nil, false
  }
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
    return nil, false
  }
  c.Request = c.Request.WithContext(ctx)
  return rd, true
}

// extractToken reads the Authorization header. The token query parameter is
// only honoured on websocket upgrades, since browsers cannot set headers there.
func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return strings.TrimSpace(authHeader[7:])
  }
  if websocket.IsWebSocketUpgrade(c.Request) {
    return c.Query("token")
  }
  return ""
}
