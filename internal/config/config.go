// Package config loads the odev-project configuration file and applies
// environment overrides. Configuration is intentionally small: where cloned
// repositories live and where the database registry is stored.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable overrides, applied after the configuration file.
const (
	EnvWorkDir      = "ODEV_WORK_DIR"
	EnvDatabasePath = "ODEV_DATABASE_PATH"
)

// Config is the root configuration for odev-project.
type Config struct {
	// WorkDir is the directory repositories are cloned into.
	WorkDir string `yaml:"work_dir"`

	Database DatabaseConfig `yaml:"database"`

	// LogLevel overrides the default "info" level ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig locates the local database registry.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoadEnvFile loads environment variables from .env/.env.local files.
// It attempts each supported filename in order and stops at the first
// successfully parsed file. Existing process variables are not overwritten.
func LoadEnvFile() error {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		return nil
	}
	return fmt.Errorf("no .env file found")
}

// Load reads the configuration file at path, applies defaults and environment
// overrides, and validates the result. A missing file is not an error: the
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to defaults.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		WorkDir:  "~/.odev/repositories",
		Database: DatabaseConfig{Path: "~/.odev/odev.db"},
		LogLevel: "info",
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvWorkDir); v != "" {
		cfg.WorkDir = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.Database.Path = v
	}
}

// normalize expands ~ prefixes and rejects empty required fields.
func (c *Config) normalize() error {
	var err error
	if c.WorkDir == "" {
		return fmt.Errorf("work_dir must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.WorkDir, err = expandHome(c.WorkDir); err != nil {
		return err
	}
	if c.Database.Path, err = expandHome(c.Database.Path); err != nil {
		return err
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

const defaultConfigTemplate = `# odev-project configuration
#
# work_dir is where repositories are cloned. The pre-commit command will
# clone missing repositories under this directory.
work_dir: ~/.odev/repositories

database:
  # Path to the local database registry (SQLite).
  path: ~/.odev/odev.db

# Logging level: debug, info, warn or error.
log_level: info
`

// Init writes a commented default configuration file to path.
func Init(path string, force bool) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
