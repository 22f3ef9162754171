package seed

import (
  "context"
  "fmt"
  "testing"
  "time"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/bidex-org/bidex-backend/internal/config"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/services"
  "github.com/bidex-org/bidex-backend/internal/types"
)

type recordingAuth struct {
  services.AuthService
  created   []string
  granted   []string
  createErr error
}

func (r *recordingAuth) CreateUser(ctx context.Context, email, password string) (*types.User, error) {
  r.created = append(r.created, email)
  if r.createErr != nil {
    return nil, r.createErr
  }
  return &types.User{ID: uuid.New(), Email: email, CreatedAt: time.Now()}, nil
}

func (r *recordingAuth) GrantAdmin(ctx context.Context, email string) error {
  r.granted = append(r.granted, email)
  return nil
}

func TestSeedAllSkipsWithoutConfig(t *testing.T) {
  auth := &recordingAuth{}
  require.NoError(t, SeedAll(context.Background(), config.SeedConfig{AdminEmail: "a@b.co"}, auth, logger.Nop()))
  assert.Empty(t, auth.created)
  assert.Empty(t, auth.granted)
}

func TestSeedAllCreatesAndGrants(t *testing.T) {
  auth := &recordingAuth{}
  cfg := config.SeedConfig{AdminEmail: " Owner@DJBidex.com", AdminPassword: "long enough"}
  require.NoError(t, SeedAll(context.Background(), cfg, auth, logger.Nop()))
  assert.Equal(t, []string{"owner@djbidex.com"}, auth.created)
  assert.Equal(t, []string{"owner@djbidex.com"}, auth.granted)
}

func TestSeedAllExistingUserStillGranted(t *testing.T) {
  auth := &recordingAuth{createErr: fmt.Errorf("%w: email is already in use", services.ErrValidation)}
  cfg := config.SeedConfig{AdminEmail: "owner@djbidex.com", AdminPassword: "long enough"}
  require.NoError(t, SeedAll(context.Background(), cfg, auth, logger.Nop()))
  assert.Equal(t, []string{"owner@djbidex.com"}, auth.granted)
}

func TestSeedAllPropagatesFailures(t *testing.T) {
  auth := &recordingAuth{createErr: fmt.Errorf("db down")}
  cfg := config.SeedConfig{AdminEmail: "owner@djbidex.com", AdminPassword: "long enough"}
  assert.Error(t, SeedAll(context.Background(), cfg, auth, logger.Nop()))
  assert.Empty(t, auth.granted)
}
