package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/bidex-org/bidex-backend/internal/services"
)

type ChatHandler struct {
  chatService     services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
  return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) StartConversation(c *gin.Context) {
  conv, err := ch.chatService.StartConversation(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{
    "conversation_id": conv.ID,
    "state":           conv.State,
    "messages":        conv.ChatMessages,
  })
}

func (ch *ChatHandler) SendMessage(c *gin.Context) {
  var req struct {
    ConversationID  string    `json:"conversation_id"`
    Content         string    `json:"content"`
    Image           string    `json:"image"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  var convID uuid.UUID
  if req.ConversationID != "" {
    parsed, err := uuid.Parse(req.ConversationID)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation_id"})
      return
    }
    convID = parsed
  }
  result, err := ch.chatService.SendMessage(c.Request.Context(), convID, req.Content, req.Image)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, result)
}
