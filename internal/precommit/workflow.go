// Package precommit installs or updates the pre-commit configuration of an
// Odoo repository: clone, version resolution, template scaffolding guarded by
// a stash, hook installation, and a final commit.
package precommit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/odoo-odev/odev-plugin-project/internal/copier"
	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/logfields"
	"github.com/odoo-odev/odev-plugin-project/internal/odoo"
)

// TemplateSource is the remote template repository the configuration is
// scaffolded from.
const TemplateSource = "gh:odoo-ps/psbe-ps-tech-tools"

// Repository is the narrow version-control surface the workflow needs.
// *git.Connector implements it.
type Repository interface {
	Name() string
	Path() string
	Exists() bool
	Clone(ctx context.Context) error
	AddAll() error
	Commit(message string) error
	WithStash(fn func() error) error
}

// Scanner derives an Odoo version from repository contents.
type Scanner func(path string) (odoo.Version, error)

// Options configures a Workflow. Target and Repository are required; the
// remaining collaborators default to their production implementations.
type Options struct {
	Logger     *slog.Logger
	Target     Target
	Repository Repository
	Scanner    Scanner
	Engine     copier.Engine
	Installer  Installer
	Verbose    bool
}

// Workflow runs the pre-commit installation sequence against one repository.
type Workflow struct {
	logger    *slog.Logger
	target    Target
	repo      Repository
	scanner   Scanner
	engine    copier.Engine
	installer Installer
	verbose   bool
	runID     string
}

// NewWorkflow validates the target selection and assembles a workflow.
// Selection errors are reported here, before any side effect.
func NewWorkflow(opts Options) (*Workflow, error) {
	if err := opts.Target.Validate(); err != nil {
		return nil, err
	}
	if opts.Repository == nil {
		return nil, apperrors.Internalf(nil, "workflow requires a repository connector")
	}

	w := &Workflow{
		logger:    opts.Logger,
		target:    opts.Target,
		repo:      opts.Repository,
		scanner:   opts.Scanner,
		engine:    opts.Engine,
		installer: opts.Installer,
		verbose:   opts.Verbose,
		runID:     uuid.NewString(),
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.scanner == nil {
		w.scanner = odoo.VersionFromAddons
	}
	if w.engine == nil {
		w.engine = copier.NewCLI()
	}
	if w.installer == nil {
		w.installer = NewExecInstaller()
	}
	return w, nil
}

// Run executes the workflow: ensure the clone exists, resolve the version,
// scaffold the configuration under a stash guard, install the hooks, and
// commit. The first fatal error aborts the run; nothing is retried.
func (w *Workflow) Run(ctx context.Context) error {
	w.logger.Info("Installing pre-commit configuration",
		logfields.Repository(w.repo.Name()),
		logfields.RunID(w.runID))

	wasCloned := !w.repo.Exists()
	if err := w.repo.Clone(ctx); err != nil {
		return apperrors.Gitf(err, "", "failed to clone repository %q", w.repo.Name())
	}
	if !w.repo.Exists() {
		return apperrors.Resolutionf("repository %q does not exist locally", w.repo.Name())
	}

	version, err := w.resolveVersion()
	if err != nil {
		return err
	}

	// The state is decided once per run: a repository cloned by this run, or
	// one without an answers file, gets the interactive fresh install.
	fresh := wasCloned || !copier.HasAnswersFile(w.repo.Path())

	w.logger.Info("Copying pre-commit configuration",
		logfields.Repository(w.repo.Name()),
		logfields.Version(version.String()),
		slog.Bool("fresh_install", fresh))

	if err := w.repo.WithStash(func() error {
		return w.copyConfig(ctx, version, fresh)
	}); err != nil {
		if apperrors.IsCategory(err, apperrors.CategoryTool) {
			// Files the template already wrote stay in place; there is no rollback.
			w.logger.Warn("Templating failed, partially written files are left in the working tree",
				logfields.Repository(w.repo.Name()), logfields.Error(err))
		}
		return err
	}

	if err := w.installer.Install(ctx, w.repo.Path()); err != nil {
		return err
	}

	if err := w.repo.AddAll(); err != nil {
		return apperrors.Gitf(err, "", "failed to stage changes in %q", w.repo.Name())
	}
	if err := w.repo.Commit(CommitMessage(version, fresh)); err != nil {
		return apperrors.Gitf(err, "", "failed to commit changes in %q", w.repo.Name())
	}

	action := "updated"
	if fresh {
		action = "installed"
	}
	w.logger.Info("Pre-commit configuration successfully "+action,
		logfields.Repository(w.repo.Name()),
		logfields.Version(version.String()))
	return nil
}

// resolveVersion prefers the version stored on the database record and falls
// back to scanning the repository's addons. Failing both is fatal.
func (w *Workflow) resolveVersion() (odoo.Version, error) {
	if v := w.target.StoredVersion(); v != "" {
		w.logger.Debug("Using version from database record",
			logfields.Database(w.target.Database.Name), logfields.Version(v.String()))
		return v, nil
	}

	version, err := w.scanner(w.repo.Path())
	if err != nil || version == "" {
		return "", apperrors.Resolutionf("could not determine Odoo version from repository %q", w.repo.Name())
	}
	return version, nil
}

// copyConfig performs the templating call: an interactive copy on fresh
// install, a non-interactive update driven by the answers file otherwise.
func (w *Workflow) copyConfig(ctx context.Context, version odoo.Version, fresh bool) error {
	data := map[string]string{"odoo_version": version.String()}

	if fresh {
		w.logger.Info("Handing over to Copier to configure options")
		return w.engine.Copy(ctx, copier.CopyOptions{
			Source:    TemplateSource,
			DestPath:  w.repo.Path(),
			Data:      data,
			Overwrite: true,
			Unsafe:    true,
			Defaults:  false,
			Quiet:     !w.verbose,
		})
	}

	return w.engine.Update(ctx, copier.UpdateOptions{
		DestPath:    w.repo.Path(),
		Data:        data,
		AnswersFile: copier.AnswersFile,
		Overwrite:   true,
		Unsafe:      true,
		Defaults:    true,
		Quiet:       !w.verbose,
	})
}
