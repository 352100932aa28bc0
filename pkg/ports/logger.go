package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for adapter-internal detail (library calls, buffering).
	LevelDebug LogLevel = iota
	// LevelInfo is for host-level progress messages.
	LevelInfo
	// LevelWarn is for recoverable problems that don't stop decoding.
	LevelWarn
	// LevelError is for unrecoverable problems.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown strings map to
// LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging operations.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the
	// component name.
	WithComponent(component string) Logger
}
