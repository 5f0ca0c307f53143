package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes messages to the log instead of delivering them. Used when no SMTP host is configured.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send validates msg and logs it.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email delivery disabled, message logged")
	s.log.Debug().Str("subject", msg.Subject).Msg(msg.Text)
	return nil
}
