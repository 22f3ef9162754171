package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bidex-org/bidex-backend/internal/services"
)

type AuthHandler struct {
  authService     services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email           string          `json:"email"`
    Password        string          `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  accessToken, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    respondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "token_type": "Bearer", "expires_in": expiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.Logout(c.Request.Context()); err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// Me reports the signed-in user and whether they pass the admin gate.
func (ah *AuthHandler) Me(c *gin.Context) {
  ctx := c.Request.Context()
  user, err := ah.authService.CurrentUser(ctx)
  if err != nil {
    respondError(c, err)
    return
  }
  if user == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
    return
  }
  isAdmin, err := ah.authService.IsAdmin(ctx, user.ID)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"user": user, "is_admin": isAdmin})
}
