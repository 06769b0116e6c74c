// Package mailer provides functionality to send emails over SMTP.
// The waitlist service uses it for best-effort welcome emails; failures are
// logged and swallowed by the caller.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds the SMTP connection and sender settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
}

// Mailer sends emails through a single SMTP account.
type Mailer struct {
	cfg Config
}

// New creates a Mailer. Credentials are validated on first send, not here.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send sends an email to the recipient. The body may be plain text or HTML;
// the Content-Type is inferred from basic HTML tags.
func (m *Mailer) Send(recipient, subject, body string) error {
	if recipient == "" || subject == "" {
		return fmt.Errorf("recipient and subject are required")
	}
	if m.cfg.Username == "" || m.cfg.Password == "" || m.cfg.Sender == "" {
		return fmt.Errorf("SMTP credentials and sender are required")
	}

	contentType := "text/plain; charset=\"UTF-8\""
	lowerBody := strings.ToLower(body)
	if strings.Contains(lowerBody, "<html") || strings.Contains(lowerBody, "<p>") {
		contentType = "text/html; charset=\"UTF-8\""
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.Sender,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
		"",
		body,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}
	return nil
}
