package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.BaseAddress == "" {
		return fmt.Errorf("base_address is required")
	}
	u, err := url.Parse(c.BaseAddress)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_address must be an http(s) URL: %q", c.BaseAddress)
	}
	if strings.HasSuffix(c.BaseAddress, "/") {
		return fmt.Errorf("base_address must not end with a slash: %q", c.BaseAddress)
	}

	if c.DataRoot == "" {
		return fmt.Errorf("data_root is required")
	}

	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMS)
	}
	if c.DialogWaitMS < 0 {
		return fmt.Errorf("dialog_wait_ms must not be negative, got %d", c.DialogWaitMS)
	}

	if c.Log.Level != "" && !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.Log.Level)
	}
	if c.Log.Format != "" && c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q (must be console or json)", c.Log.Format)
	}
	return nil
}
