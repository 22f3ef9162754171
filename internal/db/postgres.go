package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(cfg config.PostgresConfig, logMode string, log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  //1) Construct DSN
  log.Debug("Postgres config loaded", "host", cfg.Host, "port", cfg.Port, "user", cfg.User, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
  dsn := cfg.DSN()

  //2) Attempt DB Connection
  log.Info("Attempting to connect to Postgres DB now...")
  gormLog := gormlogger.Default.LogMode(gormlogger.Warn)
  if logMode == "production" {
    gormLog = gormlogger.Default.LogMode(gormlogger.Error)
  }
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
    Logger:                                   gormLog,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres DB", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres DB: %w", err)
  }
  log.Info("Successfully Connected to Postgres DB :)")

  return NewPostgresServiceFromDB(db, serviceLog), nil
}

// NewPostgresServiceFromDB wraps an existing handle.
func NewPostgresServiceFromDB(db *gorm.DB, log *logger.Logger) *PostgresService {
  return &PostgresService{db: db, log: log}
}

type foreignKey struct {
  model       interface{}
  name        string
  ddl         string
}

var foreignKeys = []foreignKey{
  // -- UserToken.user_id => users.id (ON DELETE CASCADE)
  {&types.UserToken{}, "fk_user_tokens_user_id", `
      ALTER TABLE "user_tokens"
      ADD CONSTRAINT "fk_user_tokens_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "users"("id")
      ON DELETE CASCADE
  `},
  // -- Admin.user_id => users.id (ON DELETE CASCADE)
  {&types.Admin{}, "fk_admins_user_id", `
      ALTER TABLE "admins"
      ADD CONSTRAINT "fk_admins_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "users"("id")
      ON DELETE CASCADE
  `},
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Starting AutoMigrateAll for all GORM models now...")

  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Admin{},
    &types.Mixtape{},
    &types.ChatConversation{},
  )
  if err != nil {
    s.log.Error("AutoMigrateAll failed for Base Tables :(", "error", err)
    return err
  }
  s.log.Info("AutoMigrateAll completed successfully for Base Tables :)")

  s.log.Info("Configuring Foreign Key Relationships for Base Tables now...")
  for _, fk := range foreignKeys {
    if s.db.Migrator().HasConstraint(fk.model, fk.name) {
      continue
    }
    if err := s.db.Exec(fk.ddl).Error; err != nil {
      return fmt.Errorf("failed to add %s: %w", fk.name, err)
    }
  }
  s.log.Info("Successfully Added Foreign Key Relationships to Base Tables :)")
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

// Close releases the underlying connection pool.
func (s *PostgresService) Close() error {
  sqlDB, err := s.db.DB()
  if err != nil {
    return err
  }
  return sqlDB.Close()
}
