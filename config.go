package loggerkit

// Defaults applied by Registry.NewLogger. Rotation thresholds are
// deliberately plain configuration values; override them per logger.
const (
	DefaultMaxFileSize = 5 * 1024 * 1024
	DefaultMaxBackups  = 3
	DefaultQueueSize   = 1024
)

// Config is the immutable per-logger sink configuration. It is owned by
// exactly one logger and never mutated after the logger is created.
type Config struct {
	// Subsystem and Category identify the producer. Category appears in
	// every formatted line.
	Subsystem string
	Category  string

	// MinLevel filters records: anything below it is discarded before
	// formatting.
	MinLevel Level

	// Destinations selects the sinks. Empty means records are consumed
	// but delivered nowhere.
	Destinations Destinations

	// Style renders the level label in formatted lines.
	Style Style

	// FilePath is the active log file. Required when Destinations
	// contains ToFile.
	FilePath string

	// MaxFileSize is the rotation threshold in bytes (0 picks
	// DefaultMaxFileSize). MaxBackups bounds the backup chain
	// (0 picks DefaultMaxBackups, negative keeps no backups).
	MaxFileSize int64
	MaxBackups  int

	// QueueSize bounds the logger's private write queue. When the queue
	// is full new records are dropped, never blocking the caller.
	QueueSize int
}

func (c Config) withDefaults() Config {
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = DefaultMaxBackups
	}
	if c.MaxBackups < 0 {
		c.MaxBackups = 0
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	return c
}
