package precommit

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"

	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/logfields"
)

// Installer installs the hook manager into a repository's git configuration.
type Installer interface {
	Install(ctx context.Context, repoPath string) error
}

// ExecInstaller runs the pre-commit executable. It implements Installer.
type ExecInstaller struct {
	// Executable defaults to "pre-commit" looked up on PATH.
	Executable string
}

// NewExecInstaller returns an installer using the pre-commit binary from PATH.
func NewExecInstaller() *ExecInstaller {
	return &ExecInstaller{Executable: "pre-commit"}
}

// Install runs `pre-commit install` inside repoPath. GIT_CONFIG is redirected
// to the null device for this invocation only: a global git configuration
// using global hooks would otherwise make pre-commit fail to install its own.
func (i *ExecInstaller) Install(ctx context.Context, repoPath string) error {
	slog.Debug("Installing pre-commit hooks", logfields.Tool(i.Executable), logfields.Path(repoPath))

	cmd := exec.CommandContext(ctx, i.Executable, "install")
	cmd.Dir = repoPath
	cmd.Env = append(os.Environ(), "GIT_CONFIG="+os.DevNull)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return apperrors.Toolf(err, stderr.String(), "failed to install pre-commit hooks")
	}
	return nil
}
