// Package chatflow holds the booking assistant's conversation rules: the
// state machine, the lead-data extraction, the handoff predicate and the
// prompt that is sent to the language model.
package chatflow

import (
  "time"

  "github.com/bidex-org/bidex-backend/internal/types"
)

type State string

const (
  StateGreeting     State = "greeting"
  StateCollecting   State = "collecting"
  StateHandoff      State = "handoff"
)

const (
  AssistantName = "Obadiah"

  GreetingReply = "Hello! I'm Obadiah Samson, DJ Bidex's booking manager. Welcome to DJ Bidex Computers! To get started, may I have your name please?"
  FallbackReply = "Sorry, I encountered an error. Please try again later, or message our team directly on WhatsApp."
  EmptyCompletionReply = "Sorry, I couldn't generate a response."
  HandoffReply = "Perfect! I've sent your chat details to our team via email and I'll now redirect you to our WhatsApp for immediate assistance with your payment confirmation."
)

// NewTranscript opens a conversation with the assistant's greeting.
func NewTranscript(now time.Time) []types.ChatTurn {
  return []types.ChatTurn{{
    Role:       types.RoleAssistant,
    Content:    GreetingReply,
    Timestamp:  now,
  }}
}

// Next returns the state after a completed turn. Handoff is terminal.
func Next(current State, handoff bool) State {
  if current == StateHandoff || handoff {
    return StateHandoff
  }
  return StateCollecting
}

// Accepts reports whether a conversation in this state takes new user turns.
func (s State) Accepts() bool {
  return s != StateHandoff
}
