package services

import (
  "bytes"
  "context"
  "errors"
  "io"
  "sync"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bidex-org/bidex-backend/internal/types"
)

var errStub = errors.New("stub failure")

type stubConversationRepo struct {
  mu          sync.Mutex
  rows        map[uuid.UUID]*types.ChatConversation
  upserts     int
  upsertErr   error
}

func newStubConversationRepo() *stubConversationRepo {
  return &stubConversationRepo{rows: make(map[uuid.UUID]*types.ChatConversation)}
}

func (r *stubConversationRepo) Upsert(ctx context.Context, tx *gorm.DB, conv *types.ChatConversation) error {
  r.mu.Lock()
  defer r.mu.Unlock()
  r.upserts++
  if r.upsertErr != nil {
    return r.upsertErr
  }
  r.rows[conv.ID] = cloneConversation(conv)
  return nil
}

func (r *stubConversationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ChatConversation, error) {
  r.mu.Lock()
  defer r.mu.Unlock()
  var out []*types.ChatConversation
  for _, id := range ids {
    if c, ok := r.rows[id]; ok {
      out = append(out, cloneConversation(c))
    }
  }
  return out, nil
}

func (r *stubConversationRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.ChatConversation, int64, error) {
  r.mu.Lock()
  defer r.mu.Unlock()
  var out []*types.ChatConversation
  for _, c := range r.rows {
    out = append(out, c)
  }
  total := int64(len(out))
  if offset > len(out) {
    offset = len(out)
  }
  out = out[offset:]
  if limit < len(out) {
    out = out[:limit]
  }
  return out, total, nil
}

type stubCompletion struct {
  mu        sync.Mutex
  reply     string
  err       error
  prompts   []string
  images    []string
  entered   chan struct{}
  block     chan struct{}
}

func (s *stubCompletion) Complete(ctx context.Context, prompt string, image string) (string, error) {
  s.mu.Lock()
  s.prompts = append(s.prompts, prompt)
  s.images = append(s.images, image)
  s.mu.Unlock()
  if s.entered != nil {
    s.entered <- struct{}{}
  }
  if s.block != nil {
    <-s.block
  }
  return s.reply, s.err
}

type stubEmail struct {
  mu          sync.Mutex
  exports     [][]types.ChatTurn
  profiles    []types.CustomerProfile
  err         error
}

func (s *stubEmail) SendEmail(ctx context.Context, toEmail, subject, plainText, htmlContent string) error {
  return s.err
}

func (s *stubEmail) SendChatTranscript(ctx context.Context, profile types.CustomerProfile, turns []types.ChatTurn) error {
  s.mu.Lock()
  defer s.mu.Unlock()
  s.exports = append(s.exports, append([]types.ChatTurn(nil), turns...))
  s.profiles = append(s.profiles, profile)
  return s.err
}

type stubText struct {
  alerts    []types.CustomerProfile
  err       error
}

func (s *stubText) SendText(ctx context.Context, toNumber, body string) error {
  return s.err
}

func (s *stubText) AlertStaff(ctx context.Context, profile types.CustomerProfile) error {
  s.alerts = append(s.alerts, profile)
  return s.err
}

type publishedEvent struct {
  event   string
  id      uuid.UUID
}

type stubBroadcaster struct {
  mu      sync.Mutex
  events  []publishedEvent
}

func (s *stubBroadcaster) PublishConversation(ctx context.Context, event string, id uuid.UUID, data interface{}) {
  s.mu.Lock()
  defer s.mu.Unlock()
  s.events = append(s.events, publishedEvent{event: event, id: id})
}

type bucketCall struct {
  op            string
  bucket        string
  key           string
  contentType   string
}

type stubBucket struct {
  calls       []bucketCall
  objects     map[string][]byte
  uploadErr   error
  deleteErr   error
}

func newStubBucket() *stubBucket {
  return &stubBucket{objects: make(map[string][]byte)}
}

func (s *stubBucket) UploadFile(ctx context.Context, bucket, key, contentType string, r io.Reader) error {
  s.calls = append(s.calls, bucketCall{op: "upload", bucket: bucket, key: key, contentType: contentType})
  if s.uploadErr != nil {
    return s.uploadErr
  }
  data, err := io.ReadAll(r)
  if err != nil {
    return err
  }
  s.objects[bucket+"/"+key] = data
  return nil
}

func (s *stubBucket) DeleteFile(ctx context.Context, bucket, key string) error {
  s.calls = append(s.calls, bucketCall{op: "delete", bucket: bucket, key: key})
  delete(s.objects, bucket+"/"+key)
  return s.deleteErr
}

func (s *stubBucket) GetPublicURL(bucket, key string) string {
  return "https://storage.example.com/" + bucket + "/" + key
}

type stubCover struct {
  placeholders  []string
}

func (s *stubCover) Thumbnail(r io.Reader) (*bytes.Buffer, error) {
  data, err := io.ReadAll(r)
  if err != nil {
    return nil, err
  }
  return bytes.NewBuffer(append([]byte("thumb:"), data...)), nil
}

func (s *stubCover) Placeholder(title string) (*bytes.Buffer, error) {
  s.placeholders = append(s.placeholders, title)
  return bytes.NewBufferString("placeholder:" + title), nil
}

type stubMixtapeRepo struct {
  rows        map[uuid.UUID]*types.Mixtape
  createErr   error
  deleted     []uuid.UUID
  // bucket, when set, lets the stub record how many asset deletes ran
  // before the row delete.
  bucket            *stubBucket
  deletesBeforeRow  int
}

func newStubMixtapeRepo() *stubMixtapeRepo {
  return &stubMixtapeRepo{rows: make(map[uuid.UUID]*types.Mixtape)}
}

func (r *stubMixtapeRepo) Create(ctx context.Context, tx *gorm.DB, mixtapes []*types.Mixtape) ([]*types.Mixtape, error) {
  if r.createErr != nil {
    return nil, r.createErr
  }
  for _, m := range mixtapes {
    if m.ID == uuid.Nil {
      m.ID = uuid.New()
    }
    r.rows[m.ID] = m
  }
  return mixtapes, nil
}

func (r *stubMixtapeRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Mixtape, error) {
  var out []*types.Mixtape
  for _, m := range r.rows {
    out = append(out, m)
  }
  return out, nil
}

func (r *stubMixtapeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Mixtape, error) {
  var out []*types.Mixtape
  for _, id := range ids {
    if m, ok := r.rows[id]; ok {
      out = append(out, m)
    }
  }
  return out, nil
}

func (r *stubMixtapeRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  if r.bucket != nil {
    for _, c := range r.bucket.calls {
      if c.op == "delete" {
        r.deletesBeforeRow++
      }
    }
  }
  for _, id := range ids {
    delete(r.rows, id)
    r.deleted = append(r.deleted, id)
  }
  return nil
}

type stubUserRepo struct {
  users   map[uuid.UUID]*types.User
}

func newStubUserRepo() *stubUserRepo {
  return &stubUserRepo{users: make(map[uuid.UUID]*types.User)}
}

func (r *stubUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  for _, u := range users {
    if u.ID == uuid.Nil {
      u.ID = uuid.New()
    }
    r.users[u.ID] = u
  }
  return users, nil
}

func (r *stubUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
  var out []*types.User
  for _, id := range ids {
    if u, ok := r.users[id]; ok {
      out = append(out, u)
    }
  }
  return out, nil
}

func (r *stubUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
  var out []*types.User
  for _, e := range emails {
    for _, u := range r.users {
      if u.Email == e {
        out = append(out, u)
      }
    }
  }
  return out, nil
}

func (r *stubUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
  found, _ := r.GetByEmails(ctx, tx, []string{email})
  return len(found) > 0, nil
}

type stubUserTokenRepo struct {
  tokens  map[string]*types.UserToken
}

func newStubUserTokenRepo() *stubUserTokenRepo {
  return &stubUserTokenRepo{tokens: make(map[string]*types.UserToken)}
}

func (r *stubUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
  for _, t := range tokens {
    if t.ID == uuid.Nil {
      t.ID = uuid.New()
    }
    r.tokens[t.AccessToken] = t
  }
  return tokens, nil
}

func (r *stubUserTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
  var out []*types.UserToken
  for _, a := range accessTokens {
    if t, ok := r.tokens[a]; ok {
      out = append(out, t)
    }
  }
  return out, nil
}

func (r *stubUserTokenRepo) FullDeleteByTokens(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) error {
  for _, t := range tokens {
    delete(r.tokens, t.AccessToken)
  }
  return nil
}

type stubAdminRepo struct {
  admins  map[uuid.UUID]bool
}

func newStubAdminRepo() *stubAdminRepo {
  return &stubAdminRepo{admins: make(map[uuid.UUID]bool)}
}

func (r *stubAdminRepo) Grant(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  r.admins[userID] = true
  return nil
}

func (r *stubAdminRepo) Revoke(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  delete(r.admins, userID)
  return nil
}

func (r *stubAdminRepo) IsAdmin(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
  return r.admins[userID], nil
}
