package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/bidex-org/bidex-backend/internal/services"
)

type ConversationHandler struct {
  conversationService   services.ConversationService
}

func NewConversationHandler(conversationService services.ConversationService) *ConversationHandler {
  return &ConversationHandler{conversationService: conversationService}
}

func (ch *ConversationHandler) List(c *gin.Context) {
  limit, _ := strconv.Atoi(c.Query("limit"))
  offset, _ := strconv.Atoi(c.Query("offset"))
  page, err := ch.conversationService.List(c.Request.Context(), limit, offset)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, page)
}

func (ch *ConversationHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
    return
  }
  conv, err := ch.conversationService.Get(c.Request.Context(), id)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, conv)
}
