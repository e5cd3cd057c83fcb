package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Sender is the provider-agnostic interface every notification adapter must
// implement. Deliveries are fire-and-forget from the caller's point of view:
// a returned error is logged by the caller, never propagated further.
type Sender interface {
	// Send delivers a single HTML message to the recipient.
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ── SMTP adapter ──────────────────────────────────────────────────────────────

type smtpSender struct {
	addr string // host:port
	from string
}

// NewSMTPSender creates a Sender that relays through the given SMTP server.
func NewSMTPSender(addr, from string) Sender {
	return &smtpSender{addr: addr, from: from}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg.String()))
}

// ── Log adapter ───────────────────────────────────────────────────────────────

type logSender struct {
	logger *zap.Logger
}

// NewLogSender creates a Sender that only logs deliveries. Used in
// development when no SMTP server is configured.
func NewLogSender(logger *zap.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.logger.Info("email delivery skipped (log sender)",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
