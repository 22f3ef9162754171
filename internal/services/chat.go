package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "sync"
  "time"

  "github.com/google/uuid"

  "github.com/bidex-org/bidex-backend/internal/chatflow"
  "github.com/bidex-org/bidex-backend/internal/logger"
  "github.com/bidex-org/bidex-backend/internal/repos"
  "github.com/bidex-org/bidex-backend/internal/socket"
  "github.com/bidex-org/bidex-backend/internal/types"
)

const maxImageBytes = 4 << 20

// Broadcaster pushes conversation events to the admin live feed.
type Broadcaster interface {
  PublishConversation(ctx context.Context, event string, conversationID uuid.UUID, data interface{})
}

// HandoffDescriptor tells the client where to send the customer and how long
// to wait before doing so.
type HandoffDescriptor struct {
  URL         string        `json:"url"`
  DelayMS     int64         `json:"delayMs"`
}

type TurnResult struct {
  ConversationID    uuid.UUID               `json:"conversationId"`
  State             chatflow.State          `json:"state"`
  Replies           []types.ChatTurn        `json:"replies"`
  Profile           types.CustomerProfile   `json:"profile"`
  Handoff           *HandoffDescriptor      `json:"handoff,omitempty"`
}

type ChatService interface {
  // StartConversation opens a conversation holding only the greeting.
  StartConversation(ctx context.Context) (*types.ChatConversation, error)
  // SendMessage runs one customer turn. A nil conversationID starts a new
  // conversation first.
  SendMessage(ctx context.Context, conversationID uuid.UUID, content string, image string) (*TurnResult, error)
}

type ChatServiceConfig struct {
  WhatsAppNumber    string
  RedirectDelay     time.Duration
}

type chatService struct {
  log               *logger.Logger
  conversationRepo  repos.ConversationRepo
  sessions          SessionStore
  completion        CompletionService
  emailService      EmailService
  textService       TextService
  broadcaster       Broadcaster
  cfg               ChatServiceConfig
  now               func() time.Time

  mu                sync.Mutex
  inFlight          map[uuid.UUID]struct{}
}

// NewChatService wires the turn pipeline. textService and broadcaster may be
// nil when SMS alerts or the live feed are not configured.
func NewChatService(
  log               *logger.Logger,
  conversationRepo  repos.ConversationRepo,
  sessions          SessionStore,
  completion        CompletionService,
  emailService      EmailService,
  textService       TextService,
  broadcaster       Broadcaster,
  cfg               ChatServiceConfig,
) ChatService {
  return &chatService{
    log:              log.With("service", "ChatService"),
    conversationRepo: conversationRepo,
    sessions:         sessions,
    completion:       completion,
    emailService:     emailService,
    textService:      textService,
    broadcaster:      broadcaster,
    cfg:              cfg,
    now:              time.Now,
    inFlight:         make(map[uuid.UUID]struct{}),
  }
}

func (cs *chatService) StartConversation(ctx context.Context) (*types.ChatConversation, error) {
  conv := cs.newConversation()
  if err := cs.sessions.Put(ctx, conv); err != nil {
    cs.log.Warn("Failed to store new session", "id", conv.ID, "error", err)
  }
  cs.log.Info("Started conversation", "id", conv.ID)
  return conv, nil
}

func (cs *chatService) newConversation() *types.ChatConversation {
  now := cs.now()
  conv := &types.ChatConversation{
    ID:             uuid.New(),
    ChatMessages:   chatflow.NewTranscript(now),
    State:          string(chatflow.StateGreeting),
    CreatedAt:      now,
    UpdatedAt:      now,
  }
  conv.SetProfile(types.CustomerProfile{})
  return conv
}

func (cs *chatService) SendMessage(ctx context.Context, conversationID uuid.UUID, content string, image string) (*TurnResult, error) {
  //1) Validate Input
  content = strings.TrimSpace(content)
  if err := validateTurnInput(content, image); err != nil {
    return nil, err
  }

  //2) Serialize turns per conversation
  var conv *types.ChatConversation
  if conversationID == uuid.Nil {
    conv = cs.newConversation()
    conversationID = conv.ID
  }
  if !cs.acquire(conversationID) {
    cs.log.Warn("Rejecting concurrent turn", "id", conversationID)
    return nil, ErrTurnInFlight
  }
  defer cs.release(conversationID)

  //3) Load
  if conv == nil {
    loaded, err := cs.load(ctx, conversationID)
    if err != nil {
      return nil, err
    }
    conv = loaded
  }
  if !chatflow.State(conv.State).Accepts() {
    return nil, ErrConversationClosed
  }

  // Side effects outlive a client that hangs up mid-turn.
  bg := context.WithoutCancel(ctx)

  //4) Append user turn and re-scan the profile
  userTurn := types.ChatTurn{Role: types.RoleUser, Content: content, Image: image, Timestamp: cs.now()}
  conv.ChatMessages = append(conv.ChatMessages, userTurn)
  profile := chatflow.ExtractProfile(conv.Profile(), conv.ChatMessages)
  conv.SetProfile(profile)

  //5) Ask the model
  reply := types.ChatTurn{Role: types.RoleAssistant, Content: cs.complete(ctx, conv.ChatMessages, image), Timestamp: cs.now()}
  conv.ChatMessages = append(conv.ChatMessages, reply)
  result := &TurnResult{
    ConversationID: conv.ID,
    Replies:        []types.ChatTurn{reply},
    Profile:        profile,
  }

  //6) Handoff
  handoff := chatflow.ShouldHandoff(userTurn, conv.ChatMessages)
  if handoff {
    if err := cs.emailService.SendChatTranscript(bg, profile, conv.ChatMessages); err != nil {
      cs.log.Warn("Transcript export failed", "id", conv.ID, "error", err)
    }
    final := types.ChatTurn{Role: types.RoleAssistant, Content: chatflow.HandoffReply, Timestamp: cs.now()}
    conv.ChatMessages = append(conv.ChatMessages, final)
    result.Replies = append(result.Replies, final)
    result.Handoff = &HandoffDescriptor{
      URL:      chatflow.WhatsAppLink(cs.cfg.WhatsAppNumber, chatflow.HandoffMessage(profile.Name)),
      DelayMS:  cs.cfg.RedirectDelay.Milliseconds(),
    }
  }
  conv.State = string(chatflow.Next(chatflow.State(conv.State), handoff))
  result.State = chatflow.State(conv.State)

  //7) Persist
  conv.UpdatedAt = cs.now()
  if err := cs.conversationRepo.Upsert(bg, nil, conv); err != nil {
    cs.log.Warn("Failed to persist conversation", "id", conv.ID, "error", err)
  }
  if err := cs.sessions.Put(bg, conv); err != nil {
    cs.log.Warn("Failed to store session", "id", conv.ID, "error", err)
  }

  //8) Notify
  if handoff {
    if cs.textService != nil {
      if err := cs.textService.AlertStaff(bg, profile); err != nil {
        cs.log.Warn("Staff alert failed", "id", conv.ID, "error", err)
      }
    }
    cs.publish(bg, socket.EventConversationHandoff, conv)
    cs.log.Info("Conversation handed off", "id", conv.ID, "customer", profile.DisplayName())
  } else {
    cs.publish(bg, socket.EventConversationUpdated, conv)
  }
  return result, nil
}

func validateTurnInput(content, image string) error {
  if content == "" && image == "" {
    return fmt.Errorf("%w: message text or image is required", ErrValidation)
  }
  if image == "" {
    return nil
  }
  if !strings.HasPrefix(image, "data:image/") || !strings.Contains(image, ",") {
    return fmt.Errorf("%w: image must be an image data URL", ErrValidation)
  }
  payload := image[strings.Index(image, ",")+1:]
  if len(payload)/4*3 > maxImageBytes {
    return fmt.Errorf("%w: image exceeds %d MB", ErrValidation, maxImageBytes>>20)
  }
  return nil
}

func (cs *chatService) acquire(id uuid.UUID) bool {
  cs.mu.Lock()
  defer cs.mu.Unlock()
  if _, busy := cs.inFlight[id]; busy {
    return false
  }
  cs.inFlight[id] = struct{}{}
  return true
}

func (cs *chatService) release(id uuid.UUID) {
  cs.mu.Lock()
  delete(cs.inFlight, id)
  cs.mu.Unlock()
}

// load reads the live session, falling back to the durable row.
func (cs *chatService) load(ctx context.Context, id uuid.UUID) (*types.ChatConversation, error) {
  conv, err := cs.sessions.Get(ctx, id)
  if err != nil {
    cs.log.Warn("Session store read failed; falling back to database", "id", id, "error", err)
  }
  if conv != nil {
    return conv, nil
  }
  found, err := cs.conversationRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    cs.log.Warn("Failed to load conversation", "id", id, "error", err)
    return nil, fmt.Errorf("failed to load conversation: %w", err)
  }
  if len(found) == 0 {
    return nil, ErrConversationNotFound
  }
  return found[0], nil
}

func (cs *chatService) complete(ctx context.Context, turns []types.ChatTurn, image string) string {
  text, err := cs.completion.Complete(ctx, chatflow.BuildPrompt(turns), image)
  if errors.Is(err, ErrEmptyCompletion) {
    return chatflow.EmptyCompletionReply
  }
  if err != nil {
    cs.log.Warn("Completion failed; using fallback reply", "error", err)
    return chatflow.FallbackReply
  }
  return text
}

func (cs *chatService) publish(ctx context.Context, event string, conv *types.ChatConversation) {
  if cs.broadcaster == nil {
    return
  }
  cs.broadcaster.PublishConversation(ctx, event, conv.ID, conv)
}
