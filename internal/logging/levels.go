package logging

import (
	"log/slog"
	"strings"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// LevelTrace is more verbose than slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// LevelFromVerbosity maps a -v count to a log level: none logs warnings,
// -v info, -vv debug and -vvv or more trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// ParseLevel parses a level name as used in config files. Besides the slog
// names it accepts "trace".
func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return LevelTrace, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidArgument, "log level %q", s)
	}
	return level, nil
}

// levelName renders a level, naming LevelTrace.
func levelName(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}
