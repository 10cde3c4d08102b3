package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains HTTP listener settings.
type Server struct {
	Addr                  string `toml:"addr"`
	ReadTimeoutSeconds    int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds   int    `toml:"write_timeout_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	ShutdownSeconds       int    `toml:"shutdown_seconds"`
}

// Catalogs points at a directory of catalog overrides. Files missing from the
// directory fall back to the embedded catalogs.
type Catalogs struct {
	Dir string `toml:"dir"`
}

// Gate contains upload-gate settings.
type Gate struct {
	CutoffYear     int   `toml:"cutoff_year"`
	Workers        int   `toml:"workers"`
	MaxUploadBytes int64 `toml:"max_upload_bytes"`
	FetchTimeout   int   `toml:"fetch_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Archive points at the photo manifest served by /api/photos.
type Archive struct {
	Manifest string `toml:"manifest"`
}

// Config encapsulates all configuration values for camerafy.
type Config struct {
	Server   Server   `toml:"server"`
	Catalogs Catalogs `toml:"catalogs"`
	Gate     Gate     `toml:"gate"`
	Logging  Logging  `toml:"logging"`
	Archive  Archive  `toml:"archive"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/camerafy/config.toml")
}

// Load reads path (or the default location when path is empty), applies
// defaults, normalizes, and validates. A missing file is not an error: the
// defaults are returned and exists is false.
func Load(path string) (*Config, string, bool, error) {
	c := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&c); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := c.Validate(); err != nil {
		return nil, "", false, err
	}
	return &c, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", false, err
		}
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
