package chatflow

import (
  "strings"

  "github.com/bidex-org/bidex-backend/internal/types"
)

const Persona = `You are Obadiah Samson, an expert DJ event booking assistant for DJ Bidex. Be helpful, friendly, and conversational.

When speaking with customers:
1. Introduce yourself as Obadiah Samson, DJ Bidex's booking manager
2. Ask about event details: date, location, type of event, setup needed (half or full)
3. After collecting details, ask "Is there anything else I can help you with?"
4. If they say they've completed the payment, ask for a screenshot
5. When a customer has provided all necessary details, share the account details: Bank: GTBank, Account Number: 0123456789, Account Name: DJ Bidex
6. If they mention they've sent payment proof, thank them and let them know you'll redirect them to WhatsApp for confirmation

Remember to sound natural and conversational throughout the interaction.`

// BuildPrompt concatenates the persona with the role-prefixed transcript and
// leaves the assistant's line open for the completion.
func BuildPrompt(turns []types.ChatTurn) string {
  var sb strings.Builder
  sb.WriteString(Persona)
  sb.WriteString("\n\nConversation:\n")
  for _, t := range turns {
    switch t.Role {
    case types.RoleUser:
      sb.WriteString("User: ")
    case types.RoleAssistant:
      sb.WriteString(AssistantName + ": ")
    default:
      continue
    }
    sb.WriteString(t.Content)
    sb.WriteString("\n")
  }
  sb.WriteString("\n" + AssistantName + ":")
  return sb.String()
}
