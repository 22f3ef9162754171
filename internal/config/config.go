package config

import (
  "errors"
  "fmt"
  "io/fs"
  "time"

  "github.com/caarlos0/env/v11"
  "github.com/joho/godotenv"
)

// DefaultJWTSecret is the development signing key. Production refuses it.
const DefaultJWTSecret = "defaultsecret"

type Config struct {
  LogMode           string              `env:"LOG_MODE" envDefault:"development"`
  Port              string              `env:"PORT" envDefault:"8080"`
  AllowedOrigins    []string            `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000,https://djbidex.com,https://www.djbidex.com"`

  Auth              AuthConfig
  Postgres          PostgresConfig
  Redis             RedisConfig
  Gemini            GeminiConfig
  SendGrid          SendGridConfig
  Twilio            TwilioConfig
  Storage           StorageConfig
  Handoff           HandoffConfig
  Seed              SeedConfig
}

type AuthConfig struct {
  JWTSecretKey      string              `env:"JWT_SECRET_KEY" envDefault:"defaultsecret"`
  AccessTokenTTL    int                 `env:"ACCESS_TOKEN_TTL" envDefault:"3600"`
}

type PostgresConfig struct {
  Host              string              `env:"POSTGRES_HOST" envDefault:"localhost"`
  Port              string              `env:"POSTGRES_PORT" envDefault:"5432"`
  User              string              `env:"POSTGRES_USER" envDefault:"postgres"`
  Password          string              `env:"POSTGRES_PASSWORD"`
  Name              string              `env:"POSTGRES_NAME" envDefault:"bidex"`
  SSLMode           string              `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
  Address           string              `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
  Password          string              `env:"REDIS_PASSWORD"`
  Channel           string              `env:"REDIS_CHANNEL" envDefault:"bidex_hub_broadcast"`
  SessionTTL        time.Duration       `env:"CHAT_SESSION_TTL" envDefault:"24h"`
}

type GeminiConfig struct {
  APIKey            string              `env:"GEMINI_API_KEY"`
  BaseURL           string              `env:"GEMINI_API_URL" envDefault:"https://generativelanguage.googleapis.com"`
  Model             string              `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
  Timeout           time.Duration       `env:"GEMINI_TIMEOUT" envDefault:"30s"`
}

type SendGridConfig struct {
  APIKey            string              `env:"SENDGRID_API_KEY"`
  FromEmail         string              `env:"SENDGRID_FROM_EMAIL" envDefault:"chatbot@djbidex.com"`
  FromName          string              `env:"SENDGRID_FROM_NAME" envDefault:"DJ Bidex Chatbot"`
  ExportRecipient   string              `env:"CHAT_EXPORT_RECIPIENT" envDefault:"deejaybidexx@gmail.com"`
}

type TwilioConfig struct {
  AccountSID        string              `env:"TWILIO_ACCOUNT_SID"`
  AuthToken         string              `env:"TWILIO_AUTH_TOKEN"`
  FromNumber        string              `env:"TWILIO_FROM_NUMBER"`
  StaffAlertNumber  string              `env:"STAFF_ALERT_NUMBER"`
}

type StorageConfig struct {
  CredentialsFile   string              `env:"GCS_CREDENTIALS_FILE"`
  AudioBucket       string              `env:"MIXTAPE_AUDIO_BUCKET" envDefault:"mixtapes"`
  ThumbnailBucket   string              `env:"MIXTAPE_THUMBNAIL_BUCKET" envDefault:"thumbnails"`
  PublicBaseURL     string              `env:"GCS_PUBLIC_BASE_URL" envDefault:"https://storage.googleapis.com"`
}

type HandoffConfig struct {
  WhatsAppNumber    string              `env:"WHATSAPP_NUMBER" envDefault:"+2349026001136"`
  RedirectDelay     time.Duration       `env:"HANDOFF_REDIRECT_DELAY" envDefault:"3s"`
}

type SeedConfig struct {
  AdminEmail        string              `env:"ADMIN_SEED_EMAIL"`
  AdminPassword     string              `env:"ADMIN_SEED_PASSWORD"`
}

// Load reads an optional .env file and then parses the process environment.
func Load() (*Config, error) {
  if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
    return nil, fmt.Errorf("failed to read .env file: %w", err)
  }
  cfg := &Config{}
  if err := env.Parse(cfg); err != nil {
    return nil, fmt.Errorf("failed to parse config: %w", err)
  }
  if err := cfg.Validate(); err != nil {
    return nil, err
  }
  return cfg, nil
}

// Validate rejects settings that are only acceptable in development.
func (c *Config) Validate() error {
  if c.LogMode == "production" && (c.Auth.JWTSecretKey == "" || c.Auth.JWTSecretKey == DefaultJWTSecret) {
    return errors.New("JWT_SECRET_KEY must be set to a non-default value when LOG_MODE=production")
  }
  return nil
}

func (pc PostgresConfig) DSN() string {
  return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", pc.User, pc.Password, pc.Host, pc.Port, pc.Name, pc.SSLMode)
}

func (ac AuthConfig) AccessTTL() time.Duration {
  return time.Duration(ac.AccessTokenTTL) * time.Second
}
