package commands

import (
	"context"
	"errors"

	"github.com/odoo-odev/odev-plugin-project/internal/config"
	"github.com/odoo-odev/odev-plugin-project/internal/database"
	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/git"
	"github.com/odoo-odev/odev-plugin-project/internal/precommit"
)

// PreCommitCmd implements the 'pre-commit' command: install or update the
// pre-commit configuration of a repository, selected either directly or
// through the database linked to it.
type PreCommitCmd struct {
	Database   string `short:"d" help:"Name of the database whose linked repository to target" xor:"selector"`
	Repository string `short:"r" help:"Full name of the repository to target (org/repo)" xor:"selector"`
}

func (cmd *PreCommitCmd) Run(g *Global, root *CLI) error {
	ctx := context.Background()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	target, err := cmd.resolveTarget(ctx, cfg)
	if err != nil {
		return err
	}

	connector := git.NewConnector(target.RepositoryFullName(), cfg.WorkDir)

	workflow, err := precommit.NewWorkflow(precommit.Options{
		Logger:     g.Logger,
		Target:     target,
		Repository: connector,
		Verbose:    root.Verbose,
	})
	if err != nil {
		return err
	}
	return workflow.Run(ctx)
}

// resolveTarget turns the selector flags into a workflow target. Kong already
// rejects passing both flags; the remaining combinations are checked here so
// configuration errors surface before any side effect.
func (cmd *PreCommitCmd) resolveTarget(ctx context.Context, cfg *config.Config) (precommit.Target, error) {
	switch {
	case cmd.Database != "" && cmd.Repository != "":
		return precommit.Target{}, apperrors.Configf("database and repository are mutually exclusive")
	case cmd.Database == "" && cmd.Repository == "":
		return precommit.Target{}, apperrors.Configf("a database or a repository must be selected")
	case cmd.Repository != "":
		return precommit.RepositoryTarget(cmd.Repository), nil
	}

	registry, err := database.Open(cfg.Database.Path)
	if err != nil {
		return precommit.Target{}, err
	}
	defer func() { _ = registry.Close() }()

	record, err := registry.Get(ctx, cmd.Database)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return precommit.Target{}, apperrors.Configf("unknown database %q", cmd.Database)
		}
		return precommit.Target{}, err
	}
	return precommit.DatabaseTarget(record), nil
}
