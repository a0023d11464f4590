package burrow

import "fmt"

// Level is a total order over log verbosity, mirroring the original
// library's burrow_verbose_t: a message is delivered to the Log callback
// only if its Level is >= the Client's configured verbosity threshold.
type Level int

const (
	// LevelAll delivers every log message. This is the default.
	LevelAll Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	// LevelNone suppresses all log messages.
	LevelNone
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelAll:
		return "all"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	case LevelNone:
		return "none"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}
