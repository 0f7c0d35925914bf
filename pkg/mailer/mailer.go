// Package mailer defines the outbound email contract. Delivery failures are
// logged and never surfaced to request handlers.
package mailer

import (
	"context"

	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the application log instead of delivering
// them. Used in development and tests.
type LogMailer struct {
	logger *logger.Logger
}

// NewLogMailer returns a Mailer backed by the application logger.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

// Send logs the message and always succeeds.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	ctx = m.logger.WithFields(ctx, map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	m.logger.Info(ctx, "mail: delivering message")
	return nil
}
