package admission

import (
	"time"

	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
)

// Defaults
const (
	DefaultMaxConcurrent = 5
	DefaultMaxQueueSize  = 100
	DefaultQueueTimeout  = 30 * time.Second
)

// Options configures a Dispatcher
type Options struct {
	// Name labels metrics and logs, e.g. "text" or "vision"
	Name          string
	Enabled       bool
	MaxConcurrent int
	MaxQueueSize  int
	QueueTimeout  time.Duration
	Log           *logger.Logger
}

// DefaultOptions returns an enabled queue with stock limits
func DefaultOptions() Options {
	return Options{
		Name:          "text",
		Enabled:       true,
		MaxConcurrent: DefaultMaxConcurrent,
		MaxQueueSize:  DefaultMaxQueueSize,
		QueueTimeout:  DefaultQueueTimeout,
	}
}

// FromConfig reads options using the ADWARDEN_QUEUE_ prefix
func FromConfig(cfg config.Conf) Options {
	q := cfg.Prefix("ADWARDEN_QUEUE_")
	return Options{
		Name:          "text",
		Enabled:       q.MayBool("ENABLED", true),
		MaxConcurrent: q.MayIntIn("MAX_CONCURRENT", DefaultMaxConcurrent, 1, 20),
		MaxQueueSize:  q.MayIntIn("MAX_SIZE", DefaultMaxQueueSize, 10, 1000),
		QueueTimeout:  q.MayDuration("TIMEOUT", DefaultQueueTimeout),
	}
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "text"
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	if o.MaxQueueSize <= 0 {
		o.MaxQueueSize = DefaultMaxQueueSize
	}
	if o.QueueTimeout <= 0 {
		o.QueueTimeout = DefaultQueueTimeout
	}
	if o.Log == nil {
		o.Log = logger.Named("admission")
	}
	return o
}
