// Package config holds the client configuration and its defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultAddress            = "localhost:4200"
	DefaultLogLevel           = "info"
	DefaultConnectTimeout     = 20 * time.Second
	DefaultWriteTimeout       = 1 * time.Second
	DefaultLocatorReadTimeout = 20 * time.Second
	DefaultWindowWidth        = 1280
	DefaultWindowHeight       = 720
)

// Config is the configuration of a single client process.
type Config struct {
	// Address is the game server, or the session locator unless Direct is set.
	Address string
	// Direct skips the session locator hop.
	Direct bool
	// Name is the player name sent with a fresh join.
	Name string
	// Token is a rejoin token. When set, the client rejoins instead of joining.
	Token string
	// Rejoin loads the token stored for Address and Name from the session database.
	Rejoin bool
	// LogLevel is one of error, warn, info, debug, trace.
	LogLevel string
	// SessionDB is a SQLite path or a postgres:// URL for saved sessions. Empty disables it.
	SessionDB string
	// Transcript is the path of a zstd wire transcript. Empty disables it.
	Transcript string
	// Headless runs the console frontend instead of the window.
	Headless   bool
	Fullscreen bool
	Width      int
	Height     int

	ConnectTimeout     time.Duration
	WriteTimeout       time.Duration
	LocatorReadTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Address:            DefaultAddress,
		LogLevel:           DefaultLogLevel,
		Width:              DefaultWindowWidth,
		Height:             DefaultWindowHeight,
		ConnectTimeout:     DefaultConnectTimeout,
		WriteTimeout:       DefaultWriteTimeout,
		LocatorReadTimeout: DefaultLocatorReadTimeout,
	}
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// FromEnv returns Default overridden by EPOCHWARS_* environment variables.
func FromEnv() (*Config, error) {
	c := Default()
	c.Address = GetEnv("EPOCHWARS_ADDRESS", c.Address)
	c.Name = GetEnv("EPOCHWARS_NAME", c.Name)
	c.LogLevel = GetEnv("EPOCHWARS_LOG_LEVEL", c.LogLevel)
	c.SessionDB = GetEnv("EPOCHWARS_SESSION_DB", c.SessionDB)
	c.Transcript = GetEnv("EPOCHWARS_TRANSCRIPT", c.Transcript)
	if v := GetEnv("EPOCHWARS_DIRECT", ""); v != "" {
		direct, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EPOCHWARS_DIRECT: %w", err)
		}
		c.Direct = direct
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	if c.Rejoin && c.SessionDB == "" && c.Token == "" {
		return fmt.Errorf("rejoin requires a session database or a token")
	}
	if c.Rejoin && c.Token == "" && c.Name == "" {
		return fmt.Errorf("rejoin from the session database requires a name")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if !c.Headless && (c.Width <= 0 || c.Height <= 0) {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	return nil
}
