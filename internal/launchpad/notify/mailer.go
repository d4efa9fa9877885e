// Package notify sends the transactional emails launchpad produces. Today
// that is only invite emails.
package notify

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Invite is the data an invite email is rendered from.
type Invite struct {
	To          string
	StartupName string
	Type        string // MENTOR or INVESTOR
	URL         string
	ExpiresAt   time.Time
}

var inviteHTML = htmltemplate.Must(htmltemplate.New("invite").Parse(`<!DOCTYPE html>
<html><body style="font-family: sans-serif">
<p>You have been invited to join <strong>{{.StartupName}}</strong> on Launchpad as {{.Role}}.</p>
<p><a href="{{.URL}}">Accept the invitation</a></p>
<p>The link expires on {{.Expires}} and can only be used once.</p>
</body></html>`))

var inviteText = texttemplate.Must(texttemplate.New("invite").Parse(`You have been invited to join {{.StartupName}} on Launchpad as {{.Role}}.

Accept the invitation: {{.URL}}

The link expires on {{.Expires}} and can only be used once.
`))

// RenderInvite builds the invite email for inv.
func RenderInvite(inv Invite) (Message, error) {
	role := "an investor"
	if inv.Type == "MENTOR" {
		role = "a mentor"
	}
	data := struct {
		StartupName, Role, URL, Expires string
	}{
		StartupName: inv.StartupName,
		Role:        role,
		URL:         inv.URL,
		Expires:     inv.ExpiresAt.UTC().Format("2 January 2006 15:04 MST"),
	}

	var html, text bytes.Buffer
	if err := inviteHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render invite html: %w", err)
	}
	if err := inviteText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render invite text: %w", err)
	}

	return Message{
		To:      inv.To,
		Subject: "Invitation to " + strings.TrimSpace(inv.StartupName) + " on Launchpad",
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// SendInvite renders and sends an invite email.
func SendInvite(ctx context.Context, m Mailer, inv Invite) error {
	msg, err := RenderInvite(inv)
	if err != nil {
		return err
	}
	return m.Send(ctx, msg)
}
