package handlers

import (
  "context"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/gorilla/websocket"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/requestdata"
  "github.com/bidex-org/bidex-backend/internal/socket"
)

// WsHandler upgrades an admin request to the live conversation feed. New
// clients start on the firehose channel and may narrow it with
// subscribe/unsubscribe messages.
func WsHandler(hub *socket.Hub, log *logger.Logger, allowedOrigins []string) gin.HandlerFunc {
  handlerLog := log.With("handler", "WsHandler")
  upgrader := websocket.Upgrader{
    CheckOrigin: originChecker(allowedOrigins),
  }
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil || rd.UserID == uuid.Nil {
      c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
      return
    }
    conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
    if err != nil {
      handlerLog.Warn("Failed to upgrade to websocket", "error", err)
      return
    }
    // The request context ends when this handler returns.
    ctx, cancel := context.WithCancel(context.Background())
    client := socket.NewClient(conn, hub, uuid.New(), cancel, handlerLog)
    hub.Subscribe(client, []string{socket.ChannelConversations})
    handlerLog.Info("Admin connected to live feed", "userID", rd.UserID, "client", client.ID)

    go client.WriteLoop(ctx)
    go client.ReadLoop(ctx)
  }
}

func originChecker(allowed []string) func(r *http.Request) bool {
  set := make(map[string]struct{}, len(allowed))
  for _, o := range allowed {
    set[o] = struct{}{}
  }
  return func(r *http.Request) bool {
    origin := r.Header.Get("Origin")
    if origin == "" {
      return true
    }
    _, ok := set[origin]
    return ok
  }
}
