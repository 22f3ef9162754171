package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/repos"
  "github.com/bidex-org/bidex-backend/internal/types"
)

const (
  DefaultPageSize   = 20
  MaxPageSize       = 100
)

type ConversationPage struct {
  Conversations   []*types.ChatConversation   `json:"conversations"`
  Total           int64                       `json:"total"`
  Limit           int                         `json:"limit"`
  Offset          int                         `json:"offset"`
}

// ConversationService is the admin transcript viewer.
type ConversationService interface {
  List(ctx context.Context, limit, offset int) (*ConversationPage, error)
  Get(ctx context.Context, id uuid.UUID) (*types.ChatConversation, error)
}

type conversationService struct {
  log               *logger.Logger
  conversationRepo  repos.ConversationRepo
}

func NewConversationService(log *logger.Logger, conversationRepo repos.ConversationRepo) ConversationService {
  return &conversationService{
    log:              log.With("service", "ConversationService"),
    conversationRepo: conversationRepo,
  }
}

func (cs *conversationService) List(ctx context.Context, limit, offset int) (*ConversationPage, error) {
  if limit <= 0 {
    limit = DefaultPageSize
  }
  if limit > MaxPageSize {
    limit = MaxPageSize
  }
  if offset < 0 {
    offset = 0
  }
  convs, total, err := cs.conversationRepo.List(ctx, nil, limit, offset)
  if err != nil {
    cs.log.Warn("Failed to list conversations", "error", err)
    return nil, err
  }
  return &ConversationPage{Conversations: convs, Total: total, Limit: limit, Offset: offset}, nil
}

func (cs *conversationService) Get(ctx context.Context, id uuid.UUID) (*types.ChatConversation, error) {
  found, err := cs.conversationRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    cs.log.Warn("Failed to load conversation", "id", id, "error", err)
    return nil, err
  }
  if len(found) == 0 {
    return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
  }
  return found[0], nil
}
