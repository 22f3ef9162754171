package services

import (
  "testing"

  "github.com/stretchr/testify/assert"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

func TestStaffAlertBody(t *testing.T) {
  body := StaffAlertBody(types.CustomerProfile{Name: "Tolu", EventType: "Wedding", EventDate: "12 December"})
  assert.Equal(t, "DJ Bidex booking: Tolu sent payment proof and is moving to WhatsApp. Event: Wedding. Date: 12 December.", body)

  assert.Contains(t, StaffAlertBody(types.CustomerProfile{}), "Anonymous Customer")
}

func TestNewTextServiceRequiresCredentials(t *testing.T) {
  _, err := NewTextService(config.TwilioConfig{AccountSID: "AC123"}, logger.Nop())
  assert.Error(t, err)

  _, err = NewTextService(config.TwilioConfig{AccountSID: "AC123", AuthToken: "t", FromNumber: "+1555"}, logger.Nop())
  assert.Error(t, err)

  ts, err := NewTextService(config.TwilioConfig{AccountSID: "AC123", AuthToken: "t", FromNumber: "+1555", StaffAlertNumber: "+234"}, logger.Nop())
  assert.NoError(t, err)
  assert.NotNil(t, ts)
}

func TestNewEmailServiceRequiresKey(t *testing.T) {
  _, err := NewEmailService(config.SendGridConfig{ExportRecipient: "a@b.co"}, logger.Nop())
  assert.Error(t, err)

  es, err := NewEmailService(config.SendGridConfig{APIKey: "SG.x", ExportRecipient: "a@b.co"}, logger.Nop())
  assert.NoError(t, err)
  assert.NotNil(t, es)
}
