package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes the verification link to the log instead of sending
// anything. It is the MAIL_DRIVER=log adapter for local development, where
// no SMTP server or broker is running.
type LogSender struct {
	lg zerolog.Logger
}

func NewLogSender(lg zerolog.Logger) *LogSender {
	return &LogSender{
		lg: lg.With().Str("component", "log_sender").Logger(),
	}
}

func (s *LogSender) SendVerificationEmail(ctx context.Context, to, verifyURL string) error {
	s.lg.Info().
		Str("to", to).
		Str("url", verifyURL).
		Msg("verification email (log driver)")
	return nil
}
