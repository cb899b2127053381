package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odoo-odev/odev-plugin-project/internal/database"
	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/odoo"
)

// DatabasesCmd groups registry management commands.
type DatabasesCmd struct {
	List   DatabasesListCmd   `cmd:"" default:"1" help:"List registered databases"`
	Set    DatabasesSetCmd    `cmd:"" help:"Register a database or update its version and repository"`
	Remove DatabasesRemoveCmd `cmd:"" help:"Remove a database from the registry"`
}

// DatabasesListCmd implements 'odev-project databases list'.
type DatabasesListCmd struct{}

//nolint:forbidigo // fmt is used for user-facing output
func (cmd *DatabasesListCmd) Run(_ *Global, root *CLI) error {
	registry, cleanup, err := openRegistry(root)
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := registry.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No databases registered")
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", "NAME", "VERSION", "REPOSITORY")
	for _, record := range records {
		_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", record.Name, orDash(record.Version), orDash(record.Repository))
	}
	return nil
}

// DatabasesSetCmd implements 'odev-project databases set'.
type DatabasesSetCmd struct {
	Name       string `arg:"" help:"Database name"`
	Version    string `help:"Odoo version of the database (e.g. 17.0)"`
	Repository string `help:"Full name of the linked repository (org/repo)"`
}

func (cmd *DatabasesSetCmd) Run(_ *Global, root *CLI) error {
	registry, cleanup, err := openRegistry(root)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	record := database.Database{Name: cmd.Name, Version: cmd.Version, Repository: cmd.Repository}

	// Preserve unset fields when updating an existing record.
	if existing, err := registry.Get(ctx, cmd.Name); err == nil {
		if record.Version == "" {
			record.Version = existing.Version
		}
		if record.Repository == "" {
			record.Repository = existing.Repository
		}
	}
	if record.Version != "" && odoo.ParseVersion(record.Version) == "" {
		return apperrors.Configf("invalid Odoo version %q", record.Version)
	}
	return registry.Save(ctx, record)
}

// DatabasesRemoveCmd implements 'odev-project databases remove'.
type DatabasesRemoveCmd struct {
	Name string `arg:"" help:"Database name"`
}

func (cmd *DatabasesRemoveCmd) Run(_ *Global, root *CLI) error {
	registry, cleanup, err := openRegistry(root)
	if err != nil {
		return err
	}
	defer cleanup()

	return registry.Delete(context.Background(), cmd.Name)
}

func openRegistry(root *CLI) (*database.Registry, func(), error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureParentDir(cfg.Database.Path); err != nil {
		return nil, nil, err
	}
	registry, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return registry, func() { _ = registry.Close() }, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o750)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
