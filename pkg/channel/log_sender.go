package channel

import (
	"context"
	"log/slog"
)

type logSender struct {
	log *slog.Logger
}

// NewLogSender creates an EmailSender that logs messages instead of
// delivering them. Intended for local development and tests.
func NewLogSender(log *slog.Logger) EmailSender {
	if log == nil {
		log = slog.Default()
	}
	return &logSender{log: log}
}

func (s *logSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	s.log.InfoContext(ctx, "email delivery (dev mode)",
		slog.String("to", params.To),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
	)
	return nil
}
