package utils

import (
  "context"
  "fmt"
  "net/mail"
  "strings"

  "golang.org/x/crypto/bcrypt"

  "github.com/bidex-org/bidex-backend/internal/logger"
)

const MinPasswordLength = 8

// NormalizeEmail trims and lower-cases an address for lookup.
func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}

func LoginInputValidation(ctx context.Context, log *logger.Logger, email, password string) error {
  //1) Check Email
  if email == "" {
    log.Warn("Email is an empty string, Cannot proceed.")
    return fmt.Errorf("an email is required to sign in")
  }

  //2) Check Password
  if password == "" {
    log.Warn("Password is an empty string, Cannot proceed.", "email", email)
    return fmt.Errorf("a password is required to sign in")
  }
  return nil
}

func RegisterInputValidation(ctx context.Context, log *logger.Logger, email, password string) error {
  if _, err := mail.ParseAddress(email); err != nil {
    log.Warn("Email is not a valid address, cannot proceed further.", "email", email)
    return fmt.Errorf("email %q is not a valid address", email)
  }
  if len(password) < MinPasswordLength {
    log.Warn("Password too short, cannot proceed further.", "email", email)
    return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
  }
  return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, password string) (string, error) {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    log.Warn("Failure to hash password. Returning error", "error", err)
    return "", fmt.Errorf("failed to hash password: %w", err)
  }
  return string(hashedPassword), nil
}

func CheckPassword(hash, password string) bool {
  return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
