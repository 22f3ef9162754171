package services

import (
  "context"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/repos"
  "github.com/bidex-org/bidex-backend/internal/requestdata"
  "github.com/bidex-org/bidex-backend/internal/types"
  "github.com/bidex-org/bidex-backend/internal/utils"
)

type JWTClaims struct {
  jwt.RegisteredClaims
  Email       string      `json:"email,omitempty"`
}

type AuthService interface {
  CreateUser(ctx context.Context, email, password string) (*types.User, error)
  Login(ctx context.Context, email, password string) (string, error)
  Logout(ctx context.Context) error

  // CurrentUser returns the signed-in user for the request, or nil.
  CurrentUser(ctx context.Context) (*types.User, error)
  IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
  GrantAdmin(ctx context.Context, email string) error
  RevokeAdmin(ctx context.Context, email string) error

  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)

  GetAccessTTL() time.Duration
}

type authService struct {
  log               *logger.Logger
  userRepo          repos.UserRepo
  userTokenRepo     repos.UserTokenRepo
  adminRepo         repos.AdminRepo
  jwtSecretKey      string
  accessTTL         time.Duration
  now               func() time.Time
}

func NewAuthService(
  log               *logger.Logger,
  userRepo          repos.UserRepo,
  userTokenRepo     repos.UserTokenRepo,
  adminRepo         repos.AdminRepo,
  jwtSecretKey      string,
  accessTTL         time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    log:            serviceLog,
    userRepo:       userRepo,
    userTokenRepo:  userTokenRepo,
    adminRepo:      adminRepo,
    jwtSecretKey:   jwtSecretKey,
    accessTTL:      accessTTL,
    now:            time.Now,
  }
}

func (as *authService) CreateUser(ctx context.Context, email, password string) (*types.User, error) {
  email = utils.NormalizeEmail(email)
  if vErr := utils.RegisterInputValidation(ctx, as.log, email, password); vErr != nil {
    return nil, fmt.Errorf("%w: %v", ErrValidation, vErr)
  }
  exists, err := as.userRepo.EmailExists(ctx, nil, email)
  if err != nil {
    as.log.Warn("Failed to check if user email exists, error from UserRepo. Returning an error.", "error", err)
    return nil, fmt.Errorf("failed checking user email existence: %w", err)
  }
  if exists {
    return nil, fmt.Errorf("%w: email is already in use", ErrValidation)
  }
  hash, err := utils.HashPassword(ctx, as.log, password)
  if err != nil {
    return nil, err
  }
  created, err := as.userRepo.Create(ctx, nil, []*types.User{{Email: email, Password: hash}})
  if err != nil {
    as.log.Warn("Failure from AuthService -> UserRepo to create user", "error", err)
    return nil, fmt.Errorf("failure to create user: %w", err)
  }
  if len(created) == 0 {
    return nil, fmt.Errorf("failure to create user in DB")
  }
  as.log.Info("Created user", "userID", created[0].ID, "email", email)
  return created[0], nil
}

func (as *authService) Login(ctx context.Context, userEmail, userPassword string) (string, error) {
  //1) Normalize Input
  email := utils.NormalizeEmail(userEmail)

  //2) Input Validations
  if vErr := utils.LoginInputValidation(ctx, as.log, email, userPassword); vErr != nil {
    return "", fmt.Errorf("%w: %v", ErrValidation, vErr)
  }

  //3) Find User By Email
  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    as.log.Warn("Failure to retrieve user by email, Cannot proceed. Returning error.", "error", err)
    return "", fmt.Errorf("error retrieving user by email: %w", err)
  }
  if len(users) == 0 {
    as.log.Warn("Sign-in for unknown email", "email", email)
    return "", ErrInvalidCredentials
  }
  user := users[0]
  if !utils.CheckPassword(user.Password, userPassword) {
    as.log.Warn("Invalid password, user password and hash dont match.", "userID", user.ID)
    return "", ErrInvalidCredentials
  }

  //4) Issue Token
  accessToken, expiresAt, err := as.generateAccessToken(user)
  if err != nil {
    as.log.Warn("Generate Access Token Error, Cannot proceed. Returning error.", "error", err)
    return "", fmt.Errorf("generate access token error: %w", err)
  }
  if _, err := as.userTokenRepo.Create(ctx, nil, []*types.UserToken{{
    UserID:       user.ID,
    AccessToken:  accessToken,
    ExpiresAt:    expiresAt,
  }}); err != nil {
    as.log.Warn("Create User Token Error, Cannot proceed. Returning error.", "error", err)
    return "", fmt.Errorf("create user token error: %w", err)
  }
  as.log.Info("User signed in", "userID", user.ID)
  return accessToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return ErrUnauthenticated
  }
  found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
  if err != nil {
    as.log.Warn("Error finding user token from token string, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("error finding user token from token string: %w", err)
  }
  if len(found) == 0 {
    return nil
  }
  if err := as.userTokenRepo.FullDeleteByTokens(ctx, nil, found); err != nil {
    as.log.Warn("Error deleting user token, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("error deleting user token: %w", err)
  }
  as.log.Info("User signed out", "userID", rd.UserID)
  return nil
}

func (as *authService) CurrentUser(ctx context.Context) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, nil
  }
  users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    as.log.Warn("Failed to load current user", "userID", rd.UserID, "error", err)
    return nil, err
  }
  if len(users) == 0 {
    return nil, nil
  }
  return users[0], nil
}

func (as *authService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
  ok, err := as.adminRepo.IsAdmin(ctx, nil, userID)
  if err != nil {
    as.log.Warn("Admin allowlist lookup failed", "userID", userID, "error", err)
    return false, err
  }
  return ok, nil
}

func (as *authService) GrantAdmin(ctx context.Context, email string) error {
  user, err := as.userByEmail(ctx, email)
  if err != nil {
    return err
  }
  if err := as.adminRepo.Grant(ctx, nil, user.ID); err != nil {
    return fmt.Errorf("failed to grant admin: %w", err)
  }
  as.log.Info("Granted admin", "userID", user.ID, "email", user.Email)
  return nil
}

func (as *authService) RevokeAdmin(ctx context.Context, email string) error {
  user, err := as.userByEmail(ctx, email)
  if err != nil {
    return err
  }
  if err := as.adminRepo.Revoke(ctx, nil, user.ID); err != nil {
    return fmt.Errorf("failed to revoke admin: %w", err)
  }
  as.log.Info("Revoked admin", "userID", user.ID, "email", user.Email)
  return nil
}

func (as *authService) userByEmail(ctx context.Context, email string) (*types.User, error) {
  users, err := as.userRepo.GetByEmails(ctx, nil, []string{utils.NormalizeEmail(email)})
  if err != nil {
    return nil, fmt.Errorf("error retrieving user by email: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
  }
  return users[0], nil
}

func (as *authService) generateAccessToken(user *types.User) (string, time.Time, error) {
  now := as.now()
  expiresAt := now.Add(as.accessTTL)
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      ID:         uuid.NewString(),
      Subject:    user.ID.String(),
      ExpiresAt:  jwt.NewNumericDate(expiresAt),
      IssuedAt:   jwt.NewNumericDate(now),
    },
    Email: user.Email,
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  signed, err := token.SignedString([]byte(as.jwtSecretKey))
  return signed, expiresAt, err
}

// SetContextFromToken attaches the token's identity to ctx. An empty token
// leaves ctx unchanged. A revoked or expired token is an error.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("invalid or expired JWT token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("invalid user ID in token: %w", err)
  }
  found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if err != nil {
    as.log.Warn("Error fetching user token by access token, Cannot proceed. Returning error.", "error", err)
    return ctx, fmt.Errorf("failed to fetch user token by access token: %w", err)
  }
  if len(found) == 0 {
    return ctx, fmt.Errorf("token has been revoked")
  }
  rd := &requestdata.RequestData{
    TokenString:  tokenString,
    UserID:       userID,
    Email:        claims.Email,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
