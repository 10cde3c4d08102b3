package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGate(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validatePaths()
}

func (c *Config) validateServer() error {
	if c.Server.ReadTimeoutSeconds <= 0 {
		return errors.New("server.read_timeout_seconds must be positive")
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		return errors.New("server.write_timeout_seconds must be positive")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return errors.New("server.request_timeout_seconds must be positive")
	}
	if c.Server.ShutdownSeconds < 0 {
		return errors.New("server.shutdown_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateGate() error {
	if c.Gate.CutoffYear < 1900 || c.Gate.CutoffYear > 2100 {
		return fmt.Errorf("gate.cutoff_year %d is out of range", c.Gate.CutoffYear)
	}
	if c.Gate.Workers <= 0 {
		return errors.New("gate.workers must be positive")
	}
	if c.Gate.MaxUploadBytes <= 0 {
		return errors.New("gate.max_upload_bytes must be positive")
	}
	if c.Gate.FetchTimeout <= 0 {
		return errors.New("gate.fetch_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func (c *Config) validatePaths() error {
	if c.Catalogs.Dir != "" {
		info, err := os.Stat(c.Catalogs.Dir)
		if err != nil {
			return fmt.Errorf("catalogs.dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("catalogs.dir %q is not a directory", c.Catalogs.Dir)
		}
	}
	if c.Archive.Manifest != "" {
		if _, err := os.Stat(c.Archive.Manifest); err != nil {
			return fmt.Errorf("archive.manifest: %w", err)
		}
	}
	return nil
}
