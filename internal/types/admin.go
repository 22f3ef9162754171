package types

import (
  "time"

  "github.com/google/uuid"
)

// Admin is one row of the admin allowlist.
type Admin struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  UserID              uuid.UUID                 `gorm:"type:uuid;uniqueIndex;not null" json:"userID"`

  CreatedAt           time.Time                 `gorm:"not null" json:"createdAt"`
}

func (Admin) TableName() string {
  return "admins"
}
