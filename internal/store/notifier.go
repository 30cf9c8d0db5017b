package store

import "github.com/rs/zerolog"

// Severity grades a user-facing notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier receives user-facing notices from the stores. Implementations
// render them however the surface wants (status line, toast, log line);
// the stores never look at a return value.
type Notifier interface {
	Report(message string, severity Severity)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

func (NopNotifier) Report(string, Severity) {}

// LogNotifier writes notices to a zerolog logger. Used by the CLI surface
// where there is no status bar to render into.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Report(message string, severity Severity) {
	switch severity {
	case SeverityError:
		n.Log.Error().Msg(message)
	case SeverityWarning:
		n.Log.Warn().Msg(message)
	default:
		n.Log.Info().Msg(message)
	}
}
