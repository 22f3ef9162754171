package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

type ConversationRepo interface {
  // Upsert inserts the conversation or overwrites every column of an existing row.
  Upsert(ctx context.Context, tx *gorm.DB, conv *types.ChatConversation) error
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ChatConversation, error)
  List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.ChatConversation, int64, error)
}

type conversationRepo struct {
  db      *gorm.DB
  log     *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
  return &conversationRepo{
    db:   db,
    log:  baseLog.With("repo", "ConversationRepo"),
  }
}

func (cr *conversationRepo) Upsert(ctx context.Context, tx *gorm.DB, conv *types.ChatConversation) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if conv.ID == uuid.Nil {
    conv.ID = uuid.New()
  }
  cr.log.Debug("Upserting chat conversation", "id", conv.ID, "turns", len(conv.ChatMessages))
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:    []clause.Column{{Name: "id"}},
      UpdateAll:  true,
    }).
    Create(conv).Error; err != nil {
    cr.log.Error("Failed to upsert chat conversation", "id", conv.ID, "error", err)
    return err
  }
  return nil
}

func (cr *conversationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ChatConversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.ChatConversation
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    cr.log.Error("Failed to fetch chat conversations by IDs", "error", err)
    return nil, err
  }
  return results, nil
}

func (cr *conversationRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.ChatConversation, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var total int64
  if err := transaction.WithContext(ctx).
    Model(&types.ChatConversation{}).
    Count(&total).Error; err != nil {
    cr.log.Error("Failed to count chat conversations", "error", err)
    return nil, 0, err
  }
  var results []*types.ChatConversation
  if err := transaction.WithContext(ctx).
    Order("updated_at DESC").
    Limit(limit).
    Offset(offset).
    Find(&results).Error; err != nil {
    cr.log.Error("Failed to list chat conversations", "error", err)
    return nil, 0, err
  }
  return results, total, nil
}
