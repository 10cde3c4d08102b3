package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}

	var err error
	if c.Catalogs.Dir, err = expandPath(strings.TrimSpace(c.Catalogs.Dir)); err != nil {
		return fmt.Errorf("catalogs.dir: %w", err)
	}
	if c.Archive.Manifest, err = expandPath(strings.TrimSpace(c.Archive.Manifest)); err != nil {
		return fmt.Errorf("archive.manifest: %w", err)
	}

	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "":
		c.Logging.Level = defaultLogLevel
	case "warning":
		c.Logging.Level = "warn"
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format != "json" {
		c.Logging.Format = defaultLogFormat
	}
}
