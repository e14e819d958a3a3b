// Package notify delivers user-facing mail. The only current use is account
// statements.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
)

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	addr     string
	from     string
	password string
}

// NewSMTPMailer builds a mailer for host:port addr, authenticating as from.
func NewSMTPMailer(addr, from, password string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from, password: password}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	host := m.addr
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	auth := smtp.PlainAuth("", m.from, m.password, host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// MemoryMailer collects messages in process. Used in tests and when SMTP is
// not configured.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []Message
}

// Message is one captured mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of everything delivered so far.
func (m *MemoryMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
