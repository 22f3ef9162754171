package repos

import (
  "context"
  "testing"
  "time"

  "github.com/DATA-DOG/go-sqlmock"
  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/datatypes"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/types"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
  t.Helper()
  sqlDB, mock, err := sqlmock.New()
  require.NoError(t, err)
  t.Cleanup(func() { sqlDB.Close() })

  gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
    SkipDefaultTransaction: true,
    Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
  })
  require.NoError(t, err)
  return gdb, mock
}

func TestMixtapeRepo_GetAllNewestFirst(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewMixtapeRepo(gdb, logger.Nop())

  newer := uuid.New()
  older := uuid.New()
  now := time.Now()
  rows := sqlmock.NewRows([]string{"id", "title", "artist", "audio_url", "created_at"}).
    AddRow(newer.String(), "Afro Vibes Vol. 2", "DJ Bidex", "https://cdn/a2.mp3", now).
    AddRow(older.String(), "Afro Vibes Vol. 1", "DJ Bidex", "https://cdn/a1.mp3", now.Add(-time.Hour))
  mock.ExpectQuery(`SELECT \* FROM "mixtapes" ORDER BY created_at DESC`).WillReturnRows(rows)

  got, err := repo.GetAll(context.Background(), nil)
  require.NoError(t, err)
  require.Len(t, got, 2)
  assert.Equal(t, newer, got[0].ID)
  assert.Equal(t, "Afro Vibes Vol. 1", got[1].Title)
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMixtapeRepo_FullDeleteByIDs(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewMixtapeRepo(gdb, logger.Nop())

  id := uuid.New()
  mock.ExpectExec(`DELETE FROM "mixtapes" WHERE id IN \(\$1\)`).
    WithArgs(id).
    WillReturnResult(sqlmock.NewResult(0, 1))

  require.NoError(t, repo.FullDeleteByIDs(context.Background(), nil, []uuid.UUID{id}))
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMixtapeRepo_FullDeleteByIDsEmptyIsNoop(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewMixtapeRepo(gdb, logger.Nop())

  require.NoError(t, repo.FullDeleteByIDs(context.Background(), nil, nil))
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepo_UpsertOverwritesOnConflict(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewConversationRepo(gdb, logger.Nop())

  conv := &types.ChatConversation{
    CustomerName: types.AnonymousCustomer,
    State:        "collecting",
    ChatMessages: datatypes.JSONSlice[types.ChatTurn]{
      {Role: types.RoleAssistant, Content: "Hello!", Timestamp: time.Now()},
      {Role: types.RoleUser, Content: "Hi", Timestamp: time.Now()},
    },
  }
  mock.ExpectExec(`INSERT INTO "chat_conversations" .* ON CONFLICT \("id"\) DO UPDATE SET`).
    WillReturnResult(sqlmock.NewResult(0, 1))

  require.NoError(t, repo.Upsert(context.Background(), nil, conv))
  assert.NotEqual(t, uuid.Nil, conv.ID, "upsert assigns an id to new conversations")
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepo_GetByIDsDecodesTranscript(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewConversationRepo(gdb, logger.Nop())

  id := uuid.New()
  rows := sqlmock.NewRows([]string{"id", "customer_name", "chat_messages", "state"}).
    AddRow(id.String(), "Alice", []byte(`[{"role":"user","content":"my name is Alice","timestamp":"2025-01-01T10:00:00Z"}]`), "collecting")
  mock.ExpectQuery(`SELECT \* FROM "chat_conversations" WHERE id IN \(\$1\)`).
    WithArgs(id).
    WillReturnRows(rows)

  got, err := repo.GetByIDs(context.Background(), nil, []uuid.UUID{id})
  require.NoError(t, err)
  require.Len(t, got, 1)
  require.Len(t, got[0].ChatMessages, 1)
  assert.Equal(t, "my name is Alice", got[0].ChatMessages[0].Content)
  assert.Equal(t, "Alice", got[0].Profile().Name)
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepo_IsAdmin(t *testing.T) {
  tests := []struct {
    name  string
    count int
    want  bool
  }{
    {name: "listed user", count: 1, want: true},
    {name: "unlisted user", count: 0, want: false},
  }
  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      gdb, mock := newMockDB(t)
      repo := NewAdminRepo(gdb, logger.Nop())

      userID := uuid.New()
      mock.ExpectQuery(`SELECT count\(\*\) FROM "admins" WHERE user_id = \$1`).
        WithArgs(userID).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

      got, err := repo.IsAdmin(context.Background(), nil, userID)
      require.NoError(t, err)
      assert.Equal(t, tt.want, got)
      assert.NoError(t, mock.ExpectationsWereMet())
    })
  }
}

func TestConversationRepo_ListPagesNewestFirst(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewConversationRepo(gdb, logger.Nop())

  mock.ExpectQuery(`SELECT count\(\*\) FROM "chat_conversations"`).
    WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
  id := uuid.New()
  mock.ExpectQuery(`SELECT \* FROM "chat_conversations" ORDER BY updated_at DESC LIMIT .* OFFSET`).
    WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "state"}).AddRow(id.String(), "Bola", "handoff"))

  got, total, err := repo.List(context.Background(), nil, 5, 5)
  require.NoError(t, err)
  assert.EqualValues(t, 7, total)
  require.Len(t, got, 1)
  assert.Equal(t, id, got[0].ID)
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_EmailExists(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewUserRepo(gdb, logger.Nop())

  mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
    WithArgs("owner@djbidex.com").
    WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

  ok, err := repo.EmailExists(context.Background(), nil, "owner@djbidex.com")
  require.NoError(t, err)
  assert.True(t, ok)
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserTokenRepo_GetByAccessTokens(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewUserTokenRepo(gdb, logger.Nop())

  id := uuid.New()
  userID := uuid.New()
  mock.ExpectQuery(`SELECT \* FROM "user_tokens" WHERE access_token IN \(\$1\)`).
    WithArgs("tok").
    WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "access_token"}).AddRow(id.String(), userID.String(), "tok"))

  got, err := repo.GetByAccessTokens(context.Background(), nil, []string{"tok"})
  require.NoError(t, err)
  require.Len(t, got, 1)
  assert.Equal(t, userID, got[0].UserID)
  assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserTokenRepo_FullDeleteByTokensSkipsNil(t *testing.T) {
  gdb, mock := newMockDB(t)
  repo := NewUserTokenRepo(gdb, logger.Nop())

  require.NoError(t, repo.FullDeleteByTokens(context.Background(), nil, []*types.UserToken{nil}))
  assert.NoError(t, mock.ExpectationsWereMet())
}
