package services

import (
  "context"
  "fmt"

  twilio "github.com/twilio/twilio-go"
  openapi "github.com/twilio/twilio-go/rest/api/v2010"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

type TextService interface {
  SendText(ctx context.Context, toNumber string, body string) error
  // AlertStaff texts the on-call number that a customer is waiting on WhatsApp.
  AlertStaff(ctx context.Context, profile types.CustomerProfile) error
}

type textService struct {
  log           *logger.Logger
  client        *twilio.RestClient
  from          string
  staffNumber   string
}

func NewTextService(cfg config.TwilioConfig, log *logger.Logger) (TextService, error) {
  serviceLog := log.With("service", "TextService")
  if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
    return nil, fmt.Errorf("Missing Twilio env variables: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER")
  }
  if cfg.StaffAlertNumber == "" {
    return nil, fmt.Errorf("Missing STAFF_ALERT_NUMBER environment variable")
  }
  client := twilio.NewRestClientWithParams(twilio.ClientParams{
    Username: cfg.AccountSID,
    Password: cfg.AuthToken,
  })
  return &textService{
    log:          serviceLog,
    client:       client,
    from:         cfg.FromNumber,
    staffNumber:  cfg.StaffAlertNumber,
  }, nil
}

func (ts *textService) SendText(ctx context.Context, toNumber string, body string) error {
  params := &openapi.CreateMessageParams{}
  params.SetTo(toNumber)
  params.SetFrom(ts.from)
  params.SetBody(body)

  resp, err := ts.client.Api.CreateMessage(params)
  if err != nil {
    ts.log.Warn("Failed to send Text via Twilio", "error", err)
    return err
  }
  sid, status := "", ""
  if resp.Sid != nil {
    sid = *resp.Sid
  }
  if resp.Status != nil {
    status = *resp.Status
  }
  ts.log.Info("Successfully sent Text via Twilio", "toNumber", toNumber, "sid", sid, "status", status)
  return nil
}

func (ts *textService) AlertStaff(ctx context.Context, profile types.CustomerProfile) error {
  return ts.SendText(ctx, ts.staffNumber, StaffAlertBody(profile))
}

// StaffAlertBody is the SMS text sent when a conversation is handed off.
func StaffAlertBody(profile types.CustomerProfile) string {
  body := fmt.Sprintf("DJ Bidex booking: %s sent payment proof and is moving to WhatsApp.", profile.DisplayName())
  if profile.EventType != "" {
    body += " Event: " + profile.EventType + "."
  }
  if profile.EventDate != "" {
    body += " Date: " + profile.EventDate + "."
  }
  return body
}
