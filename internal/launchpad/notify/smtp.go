package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTP sends mail through an SMTP relay.
type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

func (s *SMTP) message(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.From, s.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)
	return m
}

// Send dials the relay for each message. gomail has no context support, so
// ctx is only checked before dialling.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(s.message(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
