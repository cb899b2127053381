package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/odoo-odev/odev-plugin-project/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"~/.odev/config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	PreCommit PreCommitCmd `cmd:"" name:"pre-commit" help:"Install or update pre-commit hooks for a database's repository"`
	Databases DatabasesCmd `cmd:"" help:"Manage the local database registry"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration file, overlaying .env variables first.
func loadConfig(root *CLI) (*config.Config, error) {
	if err := config.LoadEnvFile(); err == nil && root.Verbose {
		_, _ = fmt.Fprintln(os.Stderr, "Loaded environment variables from .env file")
	}
	return config.Load(root.Config)
}
