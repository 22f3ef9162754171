package chatflow

import (
  "fmt"
  "net/url"
  "regexp"
  "strings"

  "github.com/bidex-org/bidex-backend/internal/types"
)

var (
  paymentKeywords       = []string{"payment", "screenshot", "paid", "transfer"}
  accountDetailsMarker  = "account details"
  sentAck               = regexp.MustCompile(`(?i)\bsent\b`)
  nonDigits             = regexp.MustCompile(`\D`)
)

// ShouldHandoff decides whether the current user turn ends the automated
// conversation. It fires on an attached image, on a payment keyword in the
// turn, or when the customer says "sent" after account details were shared.
// Substring matching is deliberately loose and will misfire on some text.
func ShouldHandoff(turn types.ChatTurn, transcript []types.ChatTurn) bool {
  if turn.Image != "" {
    return true
  }
  lower := strings.ToLower(turn.Content)
  for _, kw := range paymentKeywords {
    if strings.Contains(lower, kw) {
      return true
    }
  }
  detailsShared := false
  for _, t := range transcript {
    if strings.Contains(strings.ToLower(t.Content), accountDetailsMarker) {
      detailsShared = true
      continue
    }
    if detailsShared && t.Role == types.RoleUser && sentAck.MatchString(t.Content) {
      return true
    }
  }
  return false
}

// HandoffMessage is the text pre-filled into the messaging app.
func HandoffMessage(customerName string) string {
  if customerName == "" {
    customerName = "Customer"
  }
  return fmt.Sprintf("Hello! I've completed my booking conversation with %s. My name is %s and I've sent a payment screenshot for my event booking.", AssistantName, customerName)
}

// WhatsAppLink builds a wa.me deep link to number with text pre-filled.
func WhatsAppLink(number, text string) string {
  digits := nonDigits.ReplaceAllString(number, "")
  return "https://wa.me/" + digits + "?text=" + encodeURIComponent(text)
}

// uriComponentUnescape undoes the QueryEscape choices that differ from the
// browser's encodeURIComponent.
var uriComponentUnescape = strings.NewReplacer(
  "+", "%20",
  "%21", "!",
  "%27", "'",
  "%28", "(",
  "%29", ")",
  "%2A", "*",
)

func encodeURIComponent(s string) string {
  return uriComponentUnescape.Replace(url.QueryEscape(s))
}
