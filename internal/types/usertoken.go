package types

import (
  "time"

  "github.com/google/uuid"
)

// UserToken records an issued access token. Deleting the row revokes it.
type UserToken struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey"`
  UserID              uuid.UUID                 `gorm:"index;not null"`
  AccessToken         string                    `gorm:"uniqueIndex;not null;column:access_token"`
  ExpiresAt           time.Time                 `gorm:"column:expires_at"`

  CreatedAt           time.Time                 `gorm:"not null"`
}

func (UserToken) TableName() string {
  return "user_tokens"
}
