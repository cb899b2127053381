package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	"github.com/odoo-odev/odev-plugin-project/internal/logfields"
)

// Connector handles Git operations for a single repository.
type Connector struct {
	fullName  string
	basePath  string
	remoteURL string

	repo *gogit.Repository
}

// NewConnector creates a connector for the repository fullName ("org/repo"),
// cloned under basePath/<name>.
func NewConnector(fullName, basePath string) *Connector {
	return &Connector{
		fullName:  fullName,
		basePath:  basePath,
		remoteURL: "https://github.com/" + fullName + ".git",
	}
}

// WithRemoteURL overrides the remote URL derived from the full name.
func (c *Connector) WithRemoteURL(url string) *Connector {
	c.remoteURL = url
	return c
}

// FullName returns the "org/repo" identifier.
func (c *Connector) FullName() string { return c.fullName }

// Name returns the repository name without the organization prefix.
func (c *Connector) Name() string { return path.Base(c.fullName) }

// Path returns the local clone path.
func (c *Connector) Path() string { return filepath.Join(c.basePath, c.Name()) }

// RemoteURL returns the URL the repository is cloned from.
func (c *Connector) RemoteURL() string { return c.remoteURL }

// Exists reports whether a local clone is present.
func (c *Connector) Exists() bool {
	info, err := os.Stat(filepath.Join(c.Path(), ".git"))
	return err == nil && info.IsDir()
}

// Clone clones the repository to its local path. It is a no-op when a clone
// already exists.
func (c *Connector) Clone(ctx context.Context) error {
	if c.Exists() {
		slog.Debug("Repository already cloned", logfields.Repository(c.fullName), logfields.Path(c.Path()))
		return nil
	}

	slog.Info("Cloning repository", logfields.Repository(c.fullName), logfields.Path(c.Path()))

	if err := os.MkdirAll(c.basePath, 0o750); err != nil {
		return fmt.Errorf("create repositories directory: %w", err)
	}

	repo, err := gogit.PlainCloneContext(ctx, c.Path(), false, &gogit.CloneOptions{
		URL:      c.remoteURL,
		Progress: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository %s: %w", c.remoteURL, err)
	}
	c.repo = repo

	if ref, err := repo.Head(); err == nil {
		slog.Info("Repository cloned successfully",
			logfields.Repository(c.fullName),
			slog.String("commit", ref.Hash().String()[:8]),
			logfields.Path(c.Path()))
	}
	return nil
}

// Open returns the go-git handle for the local clone, opening it on first use.
func (c *Connector) Open() (*gogit.Repository, error) {
	if c.repo != nil {
		return c.repo, nil
	}
	repo, err := gogit.PlainOpen(c.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", c.Path(), err)
	}
	c.repo = repo
	return repo, nil
}
