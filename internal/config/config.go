package config

import "time"

// Config holds chat client and bridge configuration values.
type Config struct {
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`
	// RedisProtocol selects RESP2 or RESP3 for the client connections.
	RedisProtocol int `mapstructure:"redis_protocol" yaml:"redis_protocol"`
	// Embedded starts an in-process Redis instead of dialing RedisAddr.
	Embedded bool `mapstructure:"embedded" yaml:"embedded"`

	HistoryLimit   int           `mapstructure:"history_limit" yaml:"history_limit"`
	HistoryDisplay int           `mapstructure:"history_display" yaml:"history_display"`
	PollTimeout    time.Duration `mapstructure:"poll_timeout" yaml:"poll_timeout"`
	SeedFile       string        `mapstructure:"seed_file" yaml:"seed_file"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`

	// HTTP bridge.
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		RedisAddr:         "localhost:6379",
		RedisProtocol:     3,
		HistoryLimit:      50,
		HistoryDisplay:    10,
		PollTimeout:       10 * time.Millisecond,
		LogLevel:          "warn",
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.RedisAddr != "" {
		c.RedisAddr = other.RedisAddr
	}
	if other.RedisPassword != "" {
		c.RedisPassword = other.RedisPassword
	}
	if other.RedisDB != 0 {
		c.RedisDB = other.RedisDB
	}
	if other.RedisProtocol != 0 {
		c.RedisProtocol = other.RedisProtocol
	}
	if other.Embedded {
		c.Embedded = true
	}
	if other.HistoryLimit != 0 {
		c.HistoryLimit = other.HistoryLimit
	}
	if other.HistoryDisplay != 0 {
		c.HistoryDisplay = other.HistoryDisplay
	}
	if other.PollTimeout != 0 {
		c.PollTimeout = other.PollTimeout
	}
	if other.SeedFile != "" {
		c.SeedFile = other.SeedFile
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
