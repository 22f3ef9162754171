package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

type MixtapeRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, mixtapes []*types.Mixtape) ([]*types.Mixtape, error)

  // READ
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Mixtape, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, mixtapeIDs []uuid.UUID) ([]*types.Mixtape, error)

  // FULL (HARD) DELETE
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, mixtapeIDs []uuid.UUID) error
}

type mixtapeRepo struct {
  db    *gorm.DB
  log   *logger.Logger
}

func NewMixtapeRepo(db *gorm.DB, baseLog *logger.Logger) MixtapeRepo {
  repoLog := baseLog.With("repo", "MixtapeRepo")
  return &mixtapeRepo{db: db, log: repoLog}
}

func (mr *mixtapeRepo) Create(ctx context.Context, tx *gorm.DB, mixtapes []*types.Mixtape) ([]*types.Mixtape, error) {
  mr.log.Info("Starting Create Mixtapes now...")
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(mixtapes) == 0 {
    mr.log.Debug("Mixtapes array is empty, returning empty slice")
    return []*types.Mixtape{}, nil
  }
  for _, m := range mixtapes {
    if m.ID == uuid.Nil {
      m.ID = uuid.New()
    }
  }
  if err := transaction.WithContext(ctx).Create(&mixtapes).Error; err != nil {
    mr.log.Error("Failed to create mixtapes", "error", err)
    return nil, err
  }
  mr.log.Info("Successfully created mixtapes", "count", len(mixtapes))
  return mixtapes, nil
}

func (mr *mixtapeRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Mixtape, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Mixtape
  if err := transaction.WithContext(ctx).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    mr.log.Error("Failed to fetch mixtapes", "error", err)
    return nil, err
  }
  mr.log.Debug("Fetched mixtapes", "count", len(results))
  return results, nil
}

func (mr *mixtapeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, mixtapeIDs []uuid.UUID) ([]*types.Mixtape, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Mixtape
  if len(mixtapeIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", mixtapeIDs).
    Find(&results).Error; err != nil {
    mr.log.Error("Failed to fetch mixtapes by IDs", "error", err)
    return nil, err
  }
  return results, nil
}

func (mr *mixtapeRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, mixtapeIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(mixtapeIDs) == 0 {
    return nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", mixtapeIDs).
    Delete(&types.Mixtape{}).Error; err != nil {
    mr.log.Error("Failed to delete mixtapes", "error", err)
    return err
  }
  mr.log.Info("Deleted mixtapes", "count", len(mixtapeIDs))
  return nil
}
