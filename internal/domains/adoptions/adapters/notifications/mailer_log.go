package notifications

import (
	"context"
	"log/slog"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

// LogMailer writes messages to the log instead of sending them. Default transport for local runs.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg ports.EmailMessage) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, "email notification",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("notification.id", msg.NotificationID),
		slog.String("status", string(msg.Status)),
	)
	return nil
}

var _ ports.Mailer = (*LogMailer)(nil)
