package store

import "time"

// Config enables and configures each backend
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures the pgx pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	// LogSQL logs every statement, otherwise only slow or failed ones
	LogSQL      bool
	SlowQueryMs int
	// ConnectRetries bounds the startup ping loop, 0 means 20
	ConnectRetries uint64
}

// CHConfig configures clickhouse
type CHConfig struct {
	Enabled   bool
	URL       string
	ClientTag string
	Timeout   time.Duration
}

// RedisConfig configures redis
type RedisConfig struct {
	Enabled bool
	URL     string // redis://[:pass@]host:port/db
}
