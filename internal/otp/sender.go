package otp

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes codes to the log. Development only.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, phone, code string) error {
	s.log.Info().Str("phone", phone).Str("code", code).Msg("otp code issued")
	return nil
}
