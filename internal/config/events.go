package config

import (
	"fmt"
	"os"
	"strconv"
)

const EnvEventsBuffer = "STEWARD_EVENTS_BUFFER"

// EventsConfig holds in-process event bus settings.
type EventsConfig struct {
	Buffer int64 `toml:"buffer"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EventsConfig) Finalize() error {
	if c.Buffer == 0 {
		c.Buffer = 64
	}
	if v := os.Getenv(EnvEventsBuffer); v != "" {
		if buffer, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Buffer = buffer
		}
	}
	if c.Buffer < 0 {
		return fmt.Errorf("buffer must not be negative")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *EventsConfig) Merge(overlay *EventsConfig) {
	if overlay.Buffer != 0 {
		c.Buffer = overlay.Buffer
	}
}
