package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  RoleUser        = "user"
  RoleAssistant   = "assistant"

  AnonymousCustomer = "Anonymous Customer"
)

// ChatTurn is one entry of a transcript. Image holds a data URL when the
// customer attached a picture to the turn.
type ChatTurn struct {
  Role            string            `json:"role"`
  Content         string            `json:"content"`
  Image           string            `json:"image,omitempty"`
  Timestamp       time.Time         `json:"timestamp"`
}

// CustomerProfile is the lead data pulled out of free text. Empty means not
// yet matched.
type CustomerProfile struct {
  Name            string            `json:"name,omitempty"`
  Email           string            `json:"email,omitempty"`
  EventType       string            `json:"eventType,omitempty"`
  EventDate       string            `json:"eventDate,omitempty"`
  EventLocation   string            `json:"eventLocation,omitempty"`
}

// DisplayName falls back to the anonymous label used in exports.
func (p CustomerProfile) DisplayName() string {
  if p.Name == "" {
    return AnonymousCustomer
  }
  return p.Name
}

type ChatConversation struct {
  ID              uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
  CustomerName    string                            `gorm:"column:customer_name;not null" json:"customerName"`
  CustomerEmail   *string                           `gorm:"column:customer_email" json:"customerEmail,omitempty"`
  EventType       *string                           `gorm:"column:event_type" json:"eventType,omitempty"`
  EventDate       *string                           `gorm:"column:event_date" json:"eventDate,omitempty"`
  EventLocation   *string                           `gorm:"column:event_location" json:"eventLocation,omitempty"`
  ChatMessages    datatypes.JSONSlice[ChatTurn]     `gorm:"column:chat_messages;type:jsonb" json:"chatMessages"`
  State           string                            `gorm:"column:state;not null" json:"state"`

  CreatedAt       time.Time                         `gorm:"not null" json:"createdAt"`
  UpdatedAt       time.Time                         `gorm:"not null" json:"updatedAt"`
}

func (ChatConversation) TableName() string {
  return "chat_conversations"
}

// Profile rebuilds the extracted customer profile from the stored columns.
func (c *ChatConversation) Profile() CustomerProfile {
  p := CustomerProfile{
    EventType:      deref(c.EventType),
    EventDate:      deref(c.EventDate),
    EventLocation:  deref(c.EventLocation),
    Email:          deref(c.CustomerEmail),
  }
  if c.CustomerName != AnonymousCustomer {
    p.Name = c.CustomerName
  }
  return p
}

// SetProfile writes the profile onto the row, leaving unmatched fields null.
func (c *ChatConversation) SetProfile(p CustomerProfile) {
  c.CustomerName = p.DisplayName()
  c.CustomerEmail = ref(p.Email)
  c.EventType = ref(p.EventType)
  c.EventDate = ref(p.EventDate)
  c.EventLocation = ref(p.EventLocation)
}

func deref(s *string) string {
  if s == nil {
    return ""
  }
  return *s
}

func ref(s string) *string {
  if s == "" {
    return nil
  }
  return &s
}
