// Package mail renders and delivers transactional email.
package mail

import (
	"gopkg.in/gomail.v2"

	"github.com/fairyhunter13/printshop/internal/obs"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(m Message) error
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns a sender that dials host:port with the given
// credentials. STARTTLS is negotiated when the relay offers it.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(m Message) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	return s.dialer.DialAndSend(msg)
}

// LogSender records messages in the log instead of delivering them. It stands
// in for the relay when no SMTP credentials are configured.
type LogSender struct{}

func (LogSender) Send(m Message) error {
	obs.Logger.Info("email suppressed, no SMTP credentials", "to", m.To, "subject", m.Subject)
	return nil
}
