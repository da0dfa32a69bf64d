package notify

import (
	"context"
	"log/slog"
)

// consoleNotifier logs messages instead of delivering them. Used when no
// SMTP credentials are configured.
type consoleNotifier struct{}

func NewConsole() Notifier {
	return consoleNotifier{}
}

func (consoleNotifier) Send(_ context.Context, to, subject, body string) error {
	slog.Info("simulated email", "to", to, "subject", subject, "body", body)
	return nil
}
