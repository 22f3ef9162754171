// Command bidexctl runs one-off admin tasks against the bidex database.
package main

import (
  "context"
  "fmt"
  "os"

  "github.com/spf13/cobra"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/db"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/repos"
  "github.com/bidex-org/bidex-backend/internal/services"
)

var (
  pg          *db.PostgresService
  authService services.AuthService
  log         *logger.Logger
  password    string
)

func main() {
  if err := rootCmd.Execute(); err != nil {
    fmt.Fprintln(os.Stderr, err)
    os.Exit(1)
  }
}

var rootCmd = &cobra.Command{
  Use:                "bidexctl",
  Short:              "Admin tasks for the DJ Bidex backend",
  SilenceUsage:       true,
  PersistentPreRunE:  connect,
  PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
    if log != nil {
      log.Sync()
    }
    if pg == nil {
      return nil
    }
    return pg.Close()
  },
}

func init() {
  createUserCmd.Flags().StringVar(&password, "password", "", "password for the new account (default: $BIDEX_PASSWORD)")

  rootCmd.AddCommand(migrateCmd)
  rootCmd.AddCommand(createUserCmd)
  rootCmd.AddCommand(grantAdminCmd)
  rootCmd.AddCommand(revokeAdminCmd)
}

func connect(cmd *cobra.Command, args []string) error {
  cfg, err := config.Load()
  if err != nil {
    return err
  }
  log, err = logger.New(cfg.LogMode)
  if err != nil {
    return err
  }
  pg, err = db.NewPostgresService(cfg.Postgres, cfg.LogMode, log)
  if err != nil {
    return err
  }
  gdb := pg.DB()
  authService = services.NewAuthService(
    log,
    repos.NewUserRepo(gdb, log),
    repos.NewUserTokenRepo(gdb, log),
    repos.NewAdminRepo(gdb, log),
    cfg.Auth.JWTSecretKey,
    cfg.Auth.AccessTTL(),
  )
  return nil
}

var migrateCmd = &cobra.Command{
  Use:   "migrate",
  Short: "Create or update the database schema",
  Args:  cobra.NoArgs,
  RunE: func(cmd *cobra.Command, args []string) error {
    if err := pg.AutoMigrateAll(); err != nil {
      return fmt.Errorf("migrate: %w", err)
    }
    fmt.Println("Schema up to date")
    return nil
  },
}

var createUserCmd = &cobra.Command{
  Use:   "create-user <email>",
  Short: "Create a staff account",
  Args:  cobra.ExactArgs(1),
  RunE: func(cmd *cobra.Command, args []string) error {
    pw := password
    if pw == "" {
      pw = os.Getenv("BIDEX_PASSWORD")
    }
    user, err := authService.CreateUser(context.Background(), args[0], pw)
    if err != nil {
      return fmt.Errorf("create user: %w", err)
    }
    fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)
    return nil
  },
}

var grantAdminCmd = &cobra.Command{
  Use:   "grant-admin <email>",
  Short: "Give an existing account admin rights",
  Args:  cobra.ExactArgs(1),
  RunE: func(cmd *cobra.Command, args []string) error {
    if err := authService.GrantAdmin(context.Background(), args[0]); err != nil {
      return fmt.Errorf("grant admin: %w", err)
    }
    fmt.Printf("Granted admin to %s\n", args[0])
    return nil
  },
}

var revokeAdminCmd = &cobra.Command{
  Use:   "revoke-admin <email>",
  Short: "Remove admin rights from an account",
  Args:  cobra.ExactArgs(1),
  RunE: func(cmd *cobra.Command, args []string) error {
    if err := authService.RevokeAdmin(context.Background(), args[0]); err != nil {
      return fmt.Errorf("revoke admin: %w", err)
    }
    fmt.Printf("Revoked admin from %s\n", args[0])
    return nil
  },
}
