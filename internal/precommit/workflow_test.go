package precommit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoo-odev/odev-plugin-project/internal/copier"
	"github.com/odoo-odev/odev-plugin-project/internal/database"
	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/odoo"
)

// fakeRepo records which version-control operations ran, in order.
type fakeRepo struct {
	name   string
	path   string
	exists bool

	cloneErr  error
	stashErr  error
	addErr    error
	commitErr error

	events    *[]string
	commitMsg string
}

func (f *fakeRepo) Name() string { return f.name }
func (f *fakeRepo) Path() string { return f.path }
func (f *fakeRepo) Exists() bool { return f.exists }

func (f *fakeRepo) Clone(_ context.Context) error {
	*f.events = append(*f.events, "clone")
	if f.cloneErr != nil {
		return f.cloneErr
	}
	f.exists = true
	return nil
}

func (f *fakeRepo) AddAll() error {
	*f.events = append(*f.events, "add")
	return f.addErr
}

func (f *fakeRepo) Commit(message string) error {
	*f.events = append(*f.events, "commit")
	f.commitMsg = message
	return f.commitErr
}

func (f *fakeRepo) WithStash(fn func() error) error {
	*f.events = append(*f.events, "stash-enter")
	defer func() { *f.events = append(*f.events, "stash-exit") }()
	if f.stashErr != nil {
		return f.stashErr
	}
	return fn()
}

type fakeEngine struct {
	events    *[]string
	copies    []copier.CopyOptions
	updates   []copier.UpdateOptions
	copyErr   error
	updateErr error
}

func (f *fakeEngine) Copy(_ context.Context, opts copier.CopyOptions) error {
	*f.events = append(*f.events, "copy")
	f.copies = append(f.copies, opts)
	return f.copyErr
}

func (f *fakeEngine) Update(_ context.Context, opts copier.UpdateOptions) error {
	*f.events = append(*f.events, "update")
	f.updates = append(f.updates, opts)
	return f.updateErr
}

type fakeInstaller struct {
	events *[]string
	err    error
}

func (f *fakeInstaller) Install(_ context.Context, _ string) error {
	*f.events = append(*f.events, "install")
	return f.err
}

type harness struct {
	events    []string
	repo      *fakeRepo
	engine    *fakeEngine
	installer *fakeInstaller
}

func newHarness(t *testing.T, exists bool) *harness {
	t.Helper()
	h := &harness{}
	h.repo = &fakeRepo{name: "psbe-prod", path: t.TempDir(), exists: exists, events: &h.events}
	h.engine = &fakeEngine{events: &h.events}
	h.installer = &fakeInstaller{events: &h.events}
	return h
}

func (h *harness) workflow(t *testing.T, target Target, scanner Scanner) *Workflow {
	t.Helper()
	w, err := NewWorkflow(Options{
		Target:     target,
		Repository: h.repo,
		Scanner:    scanner,
		Engine:     h.engine,
		Installer:  h.installer,
	})
	require.NoError(t, err)
	return w
}

func staticScanner(v odoo.Version) Scanner {
	return func(string) (odoo.Version, error) { return v, nil }
}

func writeAnswersFile(t *testing.T, repoPath string) {
	t.Helper()
	path := filepath.Join(repoPath, copier.AnswersFile)
	require.NoError(t, os.WriteFile(path, []byte("_commit: v1.0.0\n"), 0o600))
}

func TestBothSelectorsFailBeforeAnySideEffect(t *testing.T) {
	h := newHarness(t, true)

	_, err := NewWorkflow(Options{
		Target: Target{
			Database:   &database.Database{Name: "prod", Repository: "odoo-ps/psbe-prod"},
			Repository: "odoo-ps/psbe-prod",
		},
		Repository: h.repo,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))
	assert.Empty(t, h.events, "no side effect may occur on a selection error")
}

func TestDatabaseWithoutLinkedRepositoryFails(t *testing.T) {
	h := newHarness(t, true)

	_, err := NewWorkflow(Options{
		Target:     DatabaseTarget(&database.Database{Name: "prod", Version: "17.0"}),
		Repository: h.repo,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))
	assert.Contains(t, err.Error(), `no repository linked to database "prod"`)
	assert.Empty(t, h.events)
}

func TestNoSelectorFails(t *testing.T) {
	h := newHarness(t, true)

	_, err := NewWorkflow(Options{Target: Target{}, Repository: h.repo})

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))
}

func TestUpdateBranchWhenAnswersFileExists(t *testing.T) {
	h := newHarness(t, true)
	writeAnswersFile(t, h.repo.path)

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"), staticScanner("16.0"))
	require.NoError(t, w.Run(context.Background()))

	require.Len(t, h.engine.updates, 1)
	assert.Empty(t, h.engine.copies)

	update := h.engine.updates[0]
	assert.True(t, update.Defaults, "update branch accepts default answers")
	assert.Equal(t, copier.AnswersFile, update.AnswersFile)
	assert.True(t, update.Overwrite)
	assert.True(t, update.Unsafe)
	assert.Equal(t, map[string]string{"odoo_version": "16.0"}, update.Data)

	assert.True(t, strings.HasPrefix(h.repo.commitMsg, "[IMP] Update `pre-commit` configuration"))
}

func TestFreshInstallBranchAfterClone(t *testing.T) {
	h := newHarness(t, false)
	// Even with an answers file present after clone, a repository cloned by
	// this run gets the fresh install.
	writeAnswersFile(t, h.repo.path)

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"), staticScanner("17.0"))
	require.NoError(t, w.Run(context.Background()))

	require.Len(t, h.engine.copies, 1)
	assert.Empty(t, h.engine.updates)

	cp := h.engine.copies[0]
	assert.False(t, cp.Defaults, "fresh install prompts the user")
	assert.True(t, cp.Overwrite)
	assert.True(t, cp.Unsafe)
	assert.Equal(t, TemplateSource, cp.Source)

	assert.True(t, strings.HasPrefix(h.repo.commitMsg, "[ADD] Install `pre-commit` configuration"))
}

func TestUnresolvableVersionAbortsBeforeTemplating(t *testing.T) {
	h := newHarness(t, true)

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"),
		func(string) (odoo.Version, error) { return "", odoo.ErrNoVersion })
	err := w.Run(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryResolution))
	assert.Contains(t, err.Error(), "could not determine Odoo version")

	for _, event := range h.events {
		assert.NotContains(t, []string{"copy", "update", "install", "commit"}, event,
			"no templating, hook install or commit may run after a resolution failure")
	}
}

func TestDatabaseVersionPreferredOverScanner(t *testing.T) {
	h := newHarness(t, true)
	writeAnswersFile(t, h.repo.path)

	scannerCalled := false
	w := h.workflow(t,
		DatabaseTarget(&database.Database{Name: "prod", Version: "17.0.1.0.3", Repository: "odoo-ps/psbe-prod"}),
		func(string) (odoo.Version, error) {
			scannerCalled = true
			return "12.0", nil
		})
	require.NoError(t, w.Run(context.Background()))

	assert.False(t, scannerCalled, "stored version must win over the scanner")
	require.Len(t, h.engine.updates, 1)
	assert.Equal(t, "17.0", h.engine.updates[0].Data["odoo_version"])
}

func TestHookInstallFailureSkipsCommitAndKeepsStderr(t *testing.T) {
	h := newHarness(t, true)
	writeAnswersFile(t, h.repo.path)
	h.installer.err = apperrors.Toolf(errors.New("exit status 1"),
		"An unexpected error has occurred: CalledProcessError\n", "failed to install pre-commit hooks")

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"), staticScanner("16.0"))
	err := w.Run(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryTool))
	assert.Contains(t, err.Error(), "CalledProcessError")
	assert.NotContains(t, h.events, "commit")
}

func TestStashFailurePreventsCommit(t *testing.T) {
	h := newHarness(t, true)
	writeAnswersFile(t, h.repo.path)
	h.repo.stashErr = apperrors.Gitf(errors.New("exit status 1"), "fatal: bad stash", "failed to stash uncommitted changes")

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"), staticScanner("16.0"))
	err := w.Run(context.Background())

	require.Error(t, err)
	assert.NotContains(t, h.events, "commit")
	assert.NotContains(t, h.events, "install")
}

func TestTemplatingFailureAbortsBeforeHookInstall(t *testing.T) {
	h := newHarness(t, true)
	writeAnswersFile(t, h.repo.path)
	h.engine.updateErr = apperrors.Toolf(errors.New("exit status 2"), "copier: template error", "templating update failed")

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"), staticScanner("16.0"))
	err := w.Run(context.Background())

	require.Error(t, err)
	// The stash guard is always released, even when templating fails inside it.
	assert.Contains(t, h.events, "stash-exit")
	assert.NotContains(t, h.events, "install")
	assert.NotContains(t, h.events, "commit")
}

func TestEndToEndFreshInstall(t *testing.T) {
	h := newHarness(t, false)

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"), staticScanner("17.0"))
	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t,
		[]string{"clone", "stash-enter", "copy", "stash-exit", "install", "add", "commit"},
		h.events)

	require.Len(t, h.engine.copies, 1)
	assert.Equal(t, map[string]string{"odoo_version": "17.0"}, h.engine.copies[0].Data)

	assert.True(t, strings.HasPrefix(h.repo.commitMsg, "[ADD] Install `pre-commit` configuration"))
	assert.Contains(t, h.repo.commitMsg, "Odoo version: 17.0")
}

func TestCloneFailureIsGitError(t *testing.T) {
	h := newHarness(t, false)
	h.repo.cloneErr = errors.New("authentication required")

	w := h.workflow(t, RepositoryTarget("odoo-ps/psbe-prod"), staticScanner("17.0"))
	err := w.Run(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryGit))
	assert.Equal(t, []string{"clone"}, h.events)
}
