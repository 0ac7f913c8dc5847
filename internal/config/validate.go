package config

import (
	"fmt"
	"time"

	ferrors "github.com/esologic/folio/internal/errors"
)

func (c *Config) validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return ferrors.ConfigError(fmt.Sprintf("serve.port out of range: %d", c.Serve.Port), nil)
	}
	if c.Serve.RebuildEvery != "" {
		if _, err := time.ParseDuration(c.Serve.RebuildEvery); err != nil {
			return ferrors.ConfigError("serve.rebuild_every is not a valid duration", err)
		}
	}
	if c.Content.Directory == c.Output.Directory {
		return ferrors.ConfigError("content.directory and output.directory must differ", nil)
	}
	return nil
}

// RebuildInterval returns the parsed serve.rebuild_every duration, or zero
// when periodic rebuilds are disabled.
func (c *Config) RebuildInterval() time.Duration {
	if c.Serve.RebuildEvery == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Serve.RebuildEvery)
	if err != nil {
		return 0
	}
	return d
}
