package seed

import (
  "context"
  "errors"
  "fmt"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/services"
  "github.com/bidex-org/bidex-backend/internal/utils"
)

// SeedAll bootstraps the first admin account from ADMIN_SEED_EMAIL and
// ADMIN_SEED_PASSWORD. It is a no-op when either is unset and safe to run on
// every start.
func SeedAll(ctx context.Context, cfg config.SeedConfig, authService services.AuthService, log *logger.Logger) error {
  seedLog := log.With("component", "Seed")
  if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
    seedLog.Debug("No admin seed configured; skipping")
    return nil
  }
  email := utils.NormalizeEmail(cfg.AdminEmail)
  seedLog.Info("Running SeedAll... seeding admin", "email", email)

  if _, err := authService.CreateUser(ctx, email, cfg.AdminPassword); err != nil && !errors.Is(err, services.ErrValidation) {
    return fmt.Errorf("failed to create seed admin: %w", err)
  } else if err != nil {
    seedLog.Debug("Seed admin not created", "reason", err)
  }
  if err := authService.GrantAdmin(ctx, email); err != nil {
    return fmt.Errorf("failed to grant seed admin: %w", err)
  }
  seedLog.Info("SeedAll Complete!")
  return nil
}
