package git

import (
	"bytes"
	"log/slog"
	"os/exec"
	"strings"

	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/logfields"
)

const stashMessage = "odev-project: set aside before scaffolding"

// WithStash runs fn with any uncommitted changes stashed away so fn never
// operates against a dirty working tree. The stash is restored on every exit
// path. When fn fails and restoring also fails, fn's error wins and the
// restore failure is logged.
//
// go-git has no stash support, so this shells out to the git binary.
func (c *Connector) WithStash(fn func() error) (err error) {
	dirty, err := c.isDirty()
	if err != nil {
		return err
	}
	if !dirty {
		return fn()
	}

	slog.Debug("Stashing uncommitted changes", logfields.Repository(c.fullName))
	if _, stderr, serr := runGit(c.Path(), "stash", "push", "--include-untracked", "--message", stashMessage); serr != nil {
		return apperrors.Gitf(serr, stderr, "failed to stash uncommitted changes in %q", c.Name())
	}

	defer func() {
		_, stderr, perr := runGit(c.Path(), "stash", "pop")
		if perr == nil {
			slog.Debug("Restored stashed changes", logfields.Repository(c.fullName))
			return
		}
		popErr := apperrors.Gitf(perr, stderr, "failed to restore stashed changes in %q", c.Name())
		if err == nil {
			err = popErr
		} else {
			slog.Warn("Failed to restore stashed changes", logfields.Repository(c.fullName), logfields.Error(popErr))
		}
	}()

	return fn()
}

// isDirty reports whether the working tree has uncommitted changes, untracked
// files included.
func (c *Connector) isDirty() (bool, error) {
	stdout, stderr, err := runGit(c.Path(), "status", "--porcelain")
	if err != nil {
		return false, apperrors.Gitf(err, stderr, "failed to read working tree status of %q", c.Name())
	}
	return strings.TrimSpace(stdout) != "", nil
}

// runGit executes a git subcommand in dir, capturing both output streams.
func runGit(dir string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	err = cmd.Run()
	return out.String(), errBuf.String(), err
}
