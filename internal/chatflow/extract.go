package chatflow

import (
  "regexp"
  "strings"

  "github.com/bidex-org/bidex-backend/internal/types"
)

var (
  namePattern     = regexp.MustCompile(`(?i)\bmy name is\s+([^.!?,;\n]+)`)
  nameCutPattern  = regexp.MustCompile(`(?i)\s+and\s+.*$`)
  emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

  months = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
  datePatterns    = []*regexp.Regexp{
    regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
    regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
    regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + months + `\b(?:,?\s+\d{4})?`),
    regexp.MustCompile(`(?i)\b` + months + `\s+\d{1,2}(?:st|nd|rd|th)?\b(?:,?\s+\d{4})?`),
  }
  locationPattern = regexp.MustCompile(`(?i)\b(?:location is|venue is|held (?:in|at)|taking place (?:in|at)|event is in|located (?:in|at))\s+([^.!?,;\n]+)`)
)

type eventKeyword struct {
  pattern   *regexp.Regexp
  label     string
}

// Labels follow the booking form's event type options.
var eventKeywords = []eventKeyword{
  {regexp.MustCompile(`(?i)\bwedding\b`), "Wedding"},
  {regexp.MustCompile(`(?i)\bbaby shower\b`), "Baby Shower"},
  {regexp.MustCompile(`(?i)\bbirthday\b`), "Birthday Party"},
  {regexp.MustCompile(`(?i)\b(?:corporate|conference|office party|company party)\b`), "Corporate Event"},
  {regexp.MustCompile(`(?i)\bhouse party\b`), "House Party"},
  {regexp.MustCompile(`(?i)\bprivate party\b`), "Private Party"},
}

// ExtractProfile scans the customer's turns in order and fills any profile
// field that is still empty. A field that is already set is never replaced.
func ExtractProfile(existing types.CustomerProfile, turns []types.ChatTurn) types.CustomerProfile {
  p := existing
  for _, turn := range turns {
    if turn.Role != types.RoleUser || turn.Content == "" {
      continue
    }
    text := turn.Content
    if p.Name == "" {
      p.Name = matchName(text)
    }
    if p.Email == "" {
      p.Email = emailPattern.FindString(text)
    }
    if p.EventType == "" {
      p.EventType = matchEventType(text)
    }
    if p.EventDate == "" {
      p.EventDate = matchDate(text)
    }
    if p.EventLocation == "" {
      if m := locationPattern.FindStringSubmatch(text); m != nil {
        p.EventLocation = strings.TrimSpace(m[1])
      }
    }
  }
  return p
}

func matchName(text string) string {
  m := namePattern.FindStringSubmatch(text)
  if m == nil {
    return ""
  }
  return strings.TrimSpace(nameCutPattern.ReplaceAllString(m[1], ""))
}

func matchEventType(text string) string {
  for _, kw := range eventKeywords {
    if kw.pattern.MatchString(text) {
      return kw.label
    }
  }
  return ""
}

func matchDate(text string) string {
  for _, re := range datePatterns {
    if m := re.FindString(text); m != "" {
      return strings.TrimSpace(m)
    }
  }
  return ""
}
