package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST,optional"`
	Port     string `env:"SMTP_PORT,optional"`
	Username string `env:"SMTP_USERNAME,optional"`
	Password string `env:"SMTP_PASSWORD,optional"`
}

// NewFromConfig returns an SMTP notifier, or the console notifier when no
// credentials are configured (local development).
func NewFromConfig(cfg SMTPConfig) Notifier {
	if cfg.Username == "" || cfg.Password == "" {
		return NewConsole()
	}

	return &smtpNotifier{cfg: cfg}
}

type smtpNotifier struct {
	cfg SMTPConfig
}

func (n *smtpNotifier) Send(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("no recipient address")
	}

	msg := strings.Join([]string{
		"From: " + n.cfg.Username,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	addr := n.cfg.Host + ":" + n.cfg.Port

	// smtp.SendMail negotiates STARTTLS when the server offers it.
	err := smtp.SendMail(addr, auth, n.cfg.Username, []string{to}, []byte(msg))
	if err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	slog.Info("email sent", "to", to, "subject", subject)

	return nil
}
