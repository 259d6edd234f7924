package sim

import (
	"context"
	"log/slog"
)

// EventLogger traces every resolved event at debug level.
type EventLogger struct {
	log *slog.Logger
}

func NewEventLogger(l *slog.Logger) *EventLogger {
	if l == nil {
		l = slog.Default()
	}
	return &EventLogger{log: l}
}

func (l *EventLogger) OnStep(st *Step) {
	if !l.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, e := range st.Events {
		l.log.Debug("event",
			"step", st.Index,
			"t", st.State.Time,
			"dt", st.Dt,
			"body", e.Body,
			"other", e.Other.String(),
		)
	}
	for _, tr := range st.Transfers {
		l.log.Debug("transfer",
			"step", st.Index,
			"surface", tr.Surface.String(),
			"body", tr.Body,
			"momentum", tr.Momentum,
		)
	}
}
