package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/bidex-org/bidex-backend/internal/types"
)

type transcriptTurn struct {
	Label		string
	Background	string
	Content		string
	Image		bool
	Time		string
}

type transcriptEmailData struct {
	Name		string
	Email		string
	EventType	string
	EventDate	string
	Location	string
	Turns		[]transcriptTurn
}

const transcriptHTML = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8"/>
  <title>DJ Bidex Chat Export</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Chat Conversation with {{.Name}}</h2>
  {{if .Email}}<p><strong>Email:</strong> {{.Email}}</p>{{end}}
  {{if .EventType}}<p><strong>Event Type:</strong> {{.EventType}}</p>{{end}}
  {{if .EventDate}}<p><strong>Event Date:</strong> {{.EventDate}}</p>{{end}}
  {{if .Location}}<p><strong>Location:</strong> {{.Location}}</p>{{end}}
  <hr/>
  {{range .Turns}}
  <div style="margin: 10px 0; padding: 10px; border-radius: 5px; background-color: {{.Background}};">
    <strong>{{.Label}}:</strong>
    <p style="margin: 5px 0;">{{.Content}}</p>
    {{if .Image}}<p style="margin: 5px 0;"><em>[Image attached]</em></p>{{end}}
    <small style="color: #666;">{{.Time}}</small>
  </div>
  {{end}}
  <hr/>
  <p style="font-size: 12px; color: #666;">This chat conversation was automatically exported from the DJ Bidex chatbot system.</p>
</body>
</html>
`

var transcriptTmpl = template.Must(template.New("transcript").Parse(transcriptHTML))

const timeLayout = "02 Jan 2006 15:04"

// TranscriptSubject is the subject line of a transcript export.
func TranscriptSubject(p types.CustomerProfile) string {
	return "New Chat Conversation with " + p.DisplayName()
}

func RenderTranscriptHTML(p types.CustomerProfile, turns []types.ChatTurn) (string, error) {
	data := transcriptEmailData{
		Name:		p.DisplayName(),
		Email:		p.Email,
		EventType:	p.EventType,
		EventDate:	p.EventDate,
		Location:	p.EventLocation,
	}
	for _, t := range turns {
		tt := transcriptTurn{
			Label:		"Customer",
			Background:	"#e3f2fd",
			Content:	t.Content,
			Image:		t.Image != "",
			Time:		t.Timestamp.Format(timeLayout),
		}
		if t.Role == types.RoleAssistant {
			tt.Label = "Obadiah (DJ Bidex Bot)"
			tt.Background = "#f3e5f5"
		}
		data.Turns = append(data.Turns, tt)
	}
	var buf bytes.Buffer
	if err := transcriptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTranscriptText is the plain-text alternative body.
func RenderTranscriptText(p types.CustomerProfile, turns []types.ChatTurn) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Chat Conversation with %s\n\n", p.DisplayName())
	for _, t := range turns {
		label := "Customer"
		if t.Role == types.RoleAssistant {
			label = "Obadiah"
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", t.Timestamp.Format(timeLayout), label, t.Content)
	}
	return sb.String()
}
