package services

import (
  "context"
  "fmt"

  "github.com/sendgrid/sendgrid-go"
  "github.com/sendgrid/sendgrid-go/helpers/mail"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/templates"
  "github.com/bidex-org/bidex-backend/internal/types"
)

type EmailService interface {
  SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string) error
  // SendChatTranscript exports a conversation to the staff inbox.
  SendChatTranscript(ctx context.Context, profile types.CustomerProfile, turns []types.ChatTurn) error
}

type emailService struct {
  log           *logger.Logger
  client        *sendgrid.Client
  fromEmail     string
  fromName      string
  recipient     string
}

func NewEmailService(cfg config.SendGridConfig, log *logger.Logger) (EmailService, error) {
  serviceLog := log.With("service", "EmailService")
  if cfg.APIKey == "" {
    return nil, fmt.Errorf("Missing SENDGRID_API_KEY environment variable")
  }
  if cfg.ExportRecipient == "" {
    return nil, fmt.Errorf("Missing CHAT_EXPORT_RECIPIENT environment variable")
  }
  return &emailService{
    log:        serviceLog,
    client:     sendgrid.NewSendClient(cfg.APIKey),
    fromEmail:  cfg.FromEmail,
    fromName:   cfg.FromName,
    recipient:  cfg.ExportRecipient,
  }, nil
}

func (es *emailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string) error {
  from := mail.NewEmail(es.fromName, es.fromEmail)
  to := mail.NewEmail("", toEmail)
  message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
  response, err := es.client.SendWithContext(ctx, message)
  if err != nil {
    es.log.Warn("Sendgrid email send failed", "error", err)
    return err
  }
  if response.StatusCode >= 300 {
    es.log.Warn("Sendgrid rejected email", "statusCode", response.StatusCode, "body", response.Body)
    return fmt.Errorf("sendgrid HTTP %d", response.StatusCode)
  }
  es.log.Info("Email sent", "to", toEmail, "statusCode", response.StatusCode)
  return nil
}

func (es *emailService) SendChatTranscript(ctx context.Context, profile types.CustomerProfile, turns []types.ChatTurn) error {
  subject := templates.TranscriptSubject(profile)
  html, err := templates.RenderTranscriptHTML(profile, turns)
  if err != nil {
    es.log.Warn("Failed to render transcript email", "error", err)
    return err
  }
  return es.SendEmail(ctx, es.recipient, subject, templates.RenderTranscriptText(profile, turns), html)
}

// NopEmailService is used when SendGrid is not configured. Exports are
// logged and dropped.
type NopEmailService struct {
  Log *logger.Logger
}

func (n NopEmailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string) error {
  n.Log.Warn("Email relay not configured; dropping email", "to", toEmail, "subject", subject)
  return nil
}

func (n NopEmailService) SendChatTranscript(ctx context.Context, profile types.CustomerProfile, turns []types.ChatTurn) error {
  n.Log.Warn("Email relay not configured; dropping transcript export", "customer", profile.DisplayName(), "turns", len(turns))
  return nil
}
