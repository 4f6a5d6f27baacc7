package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// SessionLogger reports the lifecycle of one solve session.
type SessionLogger struct {
	base zerolog.Logger
}

func NewSessionLogger(sessionID string, runName string, instance int) *SessionLogger {
	return &SessionLogger{
		base: Component("session").With().
			Str("session", sessionID).
			Str("run", runName).
			Int("instance", instance).
			Logger(),
	}
}

func (l *SessionLogger) Logger() *zerolog.Logger {
	return &l.base
}

func (l *SessionLogger) Start(days, teams, facts, bound int, timeout time.Duration) {
	l.base.Info().
		Int("days", days).
		Int("teams", teams).
		Int("facts", facts).
		Int("schedulable_bound", bound).
		Dur("timeout", timeout).
		Msg("solve submitted")
}

func (l *SessionLogger) Model(model int, elapsed time.Duration, score int, cost []int, optimal bool) {
	l.base.Info().
		Int("model", model).
		Str("time", elapsed.Round(10*time.Millisecond).String()).
		Int("score", score).
		Ints("cost", cost).
		Bool("optimal", optimal).
		Msg("model")
}

func (l *SessionLogger) Transition(from, to string) {
	l.base.Debug().Str("from", from).Str("to", to).Msg("session state")
}

func (l *SessionLogger) Discarded(model int, reason string) {
	l.base.Warn().Int("model", model).Str("reason", reason).Msg("model discarded")
}

func (l *SessionLogger) Finish(state string, models int, proven bool, elapsed time.Duration) {
	l.base.Info().
		Str("state", state).
		Int("models", models).
		Bool("optimality_proven", proven).
		Dur("elapsed", elapsed).
		Msg("solve finished")
}
