package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Firmware defaults. Intervals are in milliseconds, matching the device
// configuration they were lifted from.
const (
	DefaultMaxPeers         = 8
	DefaultConnectTimeoutMs = 30000
	DefaultSessionTimeoutMs = 60000
	DefaultStatusIntervalMs = 5000
	DefaultPollIntervalMs   = 100
)

// Config represents the configuration for the uwbtrack daemon
type Config struct {
	// Default config file location
	configFile string

	Device struct {
		Name string `json:"name"`
	} `json:"device"`

	Feed struct {
		MulticastAddress string `json:"multicast_address"`
	} `json:"feed"`

	Tracker struct {
		MaxPeers         int   `json:"max_peers"`
		ConnectTimeoutMs int64 `json:"connect_timeout_ms"`
		SessionTimeoutMs int64 `json:"session_timeout_ms"`
		StatusIntervalMs int64 `json:"status_interval_ms"`
		PollIntervalMs   int64 `json:"poll_interval_ms"`
	} `json:"tracker"`

	Journal struct {
		Path string `json:"path"`
	} `json:"journal"`
}

// NewEmptyConfig generates a new configuration with default settings
func NewEmptyConfig(configFile string) *Config {
	cfg := &Config{}

	cfg.configFile = configFile

	cfg.Device.Name = "pilot"

	cfg.Feed.MulticastAddress = "224.0.0.1:9777"

	cfg.Tracker.MaxPeers = DefaultMaxPeers
	cfg.Tracker.ConnectTimeoutMs = DefaultConnectTimeoutMs
	cfg.Tracker.SessionTimeoutMs = DefaultSessionTimeoutMs
	cfg.Tracker.StatusIntervalMs = DefaultStatusIntervalMs
	cfg.Tracker.PollIntervalMs = DefaultPollIntervalMs

	cfg.Journal.Path = "/tmp/uwbtrack/journal"

	return cfg
}

func NewConfigFromFile(configFile string) (*Config, error) {
	cfg := NewEmptyConfig(configFile)
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Tracker.ConnectTimeoutMs) * time.Millisecond
}

func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.Tracker.SessionTimeoutMs) * time.Millisecond
}

func (c *Config) StatusInterval() time.Duration {
	return time.Duration(c.Tracker.StatusIntervalMs) * time.Millisecond
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Tracker.PollIntervalMs) * time.Millisecond
}

// Save saves the configuration to a file
func (c *Config) Save() error {
	log.Infof("Saving config to %s", c.configFile)

	// We'll marshall our structure to JSON and write it into a file
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configFile, data, 0644)
}

func (c *Config) Load() error {
	log.Infof("Loading config from %s", c.configFile)
	data, err := os.ReadFile(c.configFile)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, c); err != nil {
		return err
	}

	return nil
}
