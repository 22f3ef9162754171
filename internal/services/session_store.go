package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "sync"
  "time"

  "github.com/google/uuid"
  "github.com/redis/go-redis/v9"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

// SessionStore holds live conversations between turns.
type SessionStore interface {
  // Get returns (nil, nil) on a miss.
  Get(ctx context.Context, id uuid.UUID) (*types.ChatConversation, error)
  Put(ctx context.Context, conv *types.ChatConversation) error
}

//----------------------------------------------------------------------------------------
// Redis
//----------------------------------------------------------------------------------------

type redisSessionStore struct {
  log       *logger.Logger
  client    *redis.Client
  ttl       time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, log *logger.Logger) SessionStore {
  return &redisSessionStore{
    log:    log.With("component", "RedisSessionStore"),
    client: client,
    ttl:    ttl,
  }
}

func sessionKey(id uuid.UUID) string {
  return "bidex:chat:" + id.String()
}

func (rs *redisSessionStore) Get(ctx context.Context, id uuid.UUID) (*types.ChatConversation, error) {
  raw, err := rs.client.Get(ctx, sessionKey(id)).Bytes()
  if errors.Is(err, redis.Nil) {
    return nil, nil
  }
  if err != nil {
    rs.log.Warn("Failed to read session", "id", id, "error", err)
    return nil, err
  }
  var conv types.ChatConversation
  if err := json.Unmarshal(raw, &conv); err != nil {
    return nil, fmt.Errorf("corrupt session %s: %w", id, err)
  }
  return &conv, nil
}

func (rs *redisSessionStore) Put(ctx context.Context, conv *types.ChatConversation) error {
  raw, err := json.Marshal(conv)
  if err != nil {
    return err
  }
  if err := rs.client.Set(ctx, sessionKey(conv.ID), raw, rs.ttl).Err(); err != nil {
    rs.log.Warn("Failed to write session", "id", conv.ID, "error", err)
    return err
  }
  return nil
}

//----------------------------------------------------------------------------------------
// Memory
//----------------------------------------------------------------------------------------

type memoryEntry struct {
  conv        types.ChatConversation
  expiresAt   time.Time
}

type memorySessionStore struct {
  mu        sync.Mutex
  entries   map[uuid.UUID]memoryEntry
  ttl       time.Duration
  now       func() time.Time
}

// NewMemorySessionStore is used when Redis is not reachable. Entries expire
// lazily after ttl; zero means never.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
  return &memorySessionStore{
    entries:  make(map[uuid.UUID]memoryEntry),
    ttl:      ttl,
    now:      time.Now,
  }
}

func (ms *memorySessionStore) Get(ctx context.Context, id uuid.UUID) (*types.ChatConversation, error) {
  ms.mu.Lock()
  defer ms.mu.Unlock()
  e, ok := ms.entries[id]
  if !ok {
    return nil, nil
  }
  if !e.expiresAt.IsZero() && ms.now().After(e.expiresAt) {
    delete(ms.entries, id)
    return nil, nil
  }
  return cloneConversation(&e.conv), nil
}

func (ms *memorySessionStore) Put(ctx context.Context, conv *types.ChatConversation) error {
  ms.mu.Lock()
  defer ms.mu.Unlock()
  e := memoryEntry{conv: *cloneConversation(conv)}
  if ms.ttl > 0 {
    e.expiresAt = ms.now().Add(ms.ttl)
  }
  ms.entries[conv.ID] = e
  return nil
}

func cloneConversation(c *types.ChatConversation) *types.ChatConversation {
  out := *c
  out.ChatMessages = append(c.ChatMessages[:0:0], c.ChatMessages...)
  return &out
}
