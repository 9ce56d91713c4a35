package session

import "github.com/rs/zerolog"

// Zerologger adapts a zerolog.Logger to the package Logger interface.
type Zerologger struct {
	log zerolog.Logger
}

func NewZerologger(log zerolog.Logger) *Zerologger {
	return &Zerologger{log: log}
}

func (z *Zerologger) Debug(format string, args ...any) {
	z.log.Debug().Msgf(format, args...)
}

func (z *Zerologger) Info(format string, args ...any) {
	z.log.Info().Msgf(format, args...)
}

func (z *Zerologger) Warn(format string, args ...any) {
	z.log.Warn().Msgf(format, args...)
}

func (z *Zerologger) Error(format string, args ...any) {
	z.log.Error().Msgf(format, args...)
}
