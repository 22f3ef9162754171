package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

// AdminRepo manages the admin allowlist.
type AdminRepo interface {
  Grant(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
  Revoke(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
  IsAdmin(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error)
}

type adminRepo struct {
  db    *gorm.DB
  log   *logger.Logger
}

func NewAdminRepo(db *gorm.DB, baseLog *logger.Logger) AdminRepo {
  return &adminRepo{db: db, log: baseLog.With("repo", "AdminRepo")}
}

func (ar *adminRepo) Grant(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  row := &types.Admin{ID: uuid.New(), UserID: userID}
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
    Create(row).Error; err != nil {
    ar.log.Error("Failed to grant admin", "userID", userID, "error", err)
    return err
  }
  ar.log.Info("Admin granted", "userID", userID)
  return nil
}

func (ar *adminRepo) Revoke(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Delete(&types.Admin{}).Error; err != nil {
    ar.log.Error("Failed to revoke admin", "userID", userID, "error", err)
    return err
  }
  ar.log.Info("Admin revoked", "userID", userID)
  return nil
}

func (ar *adminRepo) IsAdmin(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Admin{}).
    Where("user_id = ?", userID).
    Count(&count).Error; err != nil {
    ar.log.Error("Failed to look up admin allowlist", "userID", userID, "error", err)
    return false, err
  }
  return count > 0, nil
}
