package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bidex-org/bidex-backend/internal/services"
)

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
  status := http.StatusInternalServerError
  switch {
  case errors.Is(err, services.ErrValidation):
    status = http.StatusBadRequest
  case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthenticated):
    status = http.StatusUnauthorized
  case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrConversationNotFound):
    status = http.StatusNotFound
  case errors.Is(err, services.ErrConversationClosed), errors.Is(err, services.ErrTurnInFlight):
    status = http.StatusConflict
  }
  msg := err.Error()
  if status == http.StatusInternalServerError {
    msg = "internal server error"
  }
  c.JSON(status, gin.H{"error": msg})
}
