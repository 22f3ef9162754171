package services

import (
  "context"
  "testing"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/requestdata"
)

type authFixture struct {
  svc     AuthService
  users   *stubUserRepo
  tokens  *stubUserTokenRepo
  admins  *stubAdminRepo
}

func newAuthFixture() *authFixture {
  f := &authFixture{users: newStubUserRepo(), tokens: newStubUserTokenRepo(), admins: newStubAdminRepo()}
  f.svc = NewAuthService(logger.Nop(), f.users, f.tokens, f.admins, "test-secret", time.Hour)
  return f
}

func TestCreateUserAndLogin(t *testing.T) {
  f := newAuthFixture()
  ctx := context.Background()

  u, err := f.svc.CreateUser(ctx, " Admin@DJBidex.com ", "correct horse")
  require.NoError(t, err)
  assert.Equal(t, "admin@djbidex.com", u.Email)
  assert.NotEqual(t, "correct horse", u.Password)

  _, err = f.svc.CreateUser(ctx, "admin@djbidex.com", "another password")
  assert.ErrorIs(t, err, ErrValidation)

  token, err := f.svc.Login(ctx, "ADMIN@djbidex.com", "correct horse")
  require.NoError(t, err)
  assert.Contains(t, f.tokens.tokens, token)

  ctx, err = f.svc.SetContextFromToken(ctx, token)
  require.NoError(t, err)
  rd := requestdata.GetRequestData(ctx)
  require.NotNil(t, rd)
  assert.Equal(t, u.ID, rd.UserID)
  assert.Equal(t, "admin@djbidex.com", rd.Email)

  current, err := f.svc.CurrentUser(ctx)
  require.NoError(t, err)
  require.NotNil(t, current)
  assert.Equal(t, u.ID, current.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
  f := newAuthFixture()
  ctx := context.Background()
  _, err := f.svc.CreateUser(ctx, "admin@djbidex.com", "correct horse")
  require.NoError(t, err)

  _, err = f.svc.Login(ctx, "admin@djbidex.com", "wrong password")
  assert.ErrorIs(t, err, ErrInvalidCredentials)

  _, err = f.svc.Login(ctx, "nobody@djbidex.com", "correct horse")
  assert.ErrorIs(t, err, ErrInvalidCredentials)

  _, err = f.svc.Login(ctx, "", "")
  assert.ErrorIs(t, err, ErrValidation)
  assert.Empty(t, f.tokens.tokens)
}

func TestLogoutRevokesToken(t *testing.T) {
  f := newAuthFixture()
  ctx := context.Background()
  _, err := f.svc.CreateUser(ctx, "admin@djbidex.com", "correct horse")
  require.NoError(t, err)
  token, err := f.svc.Login(ctx, "admin@djbidex.com", "correct horse")
  require.NoError(t, err)

  authed, err := f.svc.SetContextFromToken(ctx, token)
  require.NoError(t, err)
  require.NoError(t, f.svc.Logout(authed))
  assert.Empty(t, f.tokens.tokens)

  _, err = f.svc.SetContextFromToken(ctx, token)
  assert.Error(t, err)

  assert.ErrorIs(t, f.svc.Logout(ctx), ErrUnauthenticated)
}

func TestSetContextFromToken(t *testing.T) {
  f := newAuthFixture()
  ctx := context.Background()

  same, err := f.svc.SetContextFromToken(ctx, "")
  require.NoError(t, err)
  assert.Nil(t, requestdata.GetRequestData(same))

  _, err = f.svc.SetContextFromToken(ctx, "not-a-jwt")
  assert.Error(t, err)

  forged := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{Subject: "00000000-0000-0000-0000-000000000001"},
  })
  signed, err := forged.SignedString([]byte("other-secret"))
  require.NoError(t, err)
  _, err = f.svc.SetContextFromToken(ctx, signed)
  assert.Error(t, err)
}

func TestCurrentUserAnonymous(t *testing.T) {
  f := newAuthFixture()
  u, err := f.svc.CurrentUser(context.Background())
  assert.NoError(t, err)
  assert.Nil(t, u)
}

func TestGrantAndRevokeAdmin(t *testing.T) {
  f := newAuthFixture()
  ctx := context.Background()
  u, err := f.svc.CreateUser(ctx, "admin@djbidex.com", "correct horse")
  require.NoError(t, err)

  ok, err := f.svc.IsAdmin(ctx, u.ID)
  require.NoError(t, err)
  assert.False(t, ok)

  require.NoError(t, f.svc.GrantAdmin(ctx, "Admin@djbidex.com"))
  ok, _ = f.svc.IsAdmin(ctx, u.ID)
  assert.True(t, ok)

  require.NoError(t, f.svc.RevokeAdmin(ctx, "admin@djbidex.com"))
  ok, _ = f.svc.IsAdmin(ctx, u.ID)
  assert.False(t, ok)

  assert.ErrorIs(t, f.svc.GrantAdmin(ctx, "ghost@djbidex.com"), ErrNotFound)
}
