package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoo-odev/odev-plugin-project/internal/config"
	"github.com/odoo-odev/odev-plugin-project/internal/database"
	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		WorkDir:  filepath.Join(dir, "repos"),
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "odev.db")},
	}
}

func TestResolveTargetRequiresSelector(t *testing.T) {
	cmd := &PreCommitCmd{}

	_, err := cmd.resolveTarget(context.Background(), testConfig(t))

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))
}

func TestResolveTargetRejectsBothSelectors(t *testing.T) {
	cmd := &PreCommitCmd{Database: "prod", Repository: "odoo-ps/psbe-prod"}

	_, err := cmd.resolveTarget(context.Background(), testConfig(t))

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))
}

func TestResolveTargetExplicitRepository(t *testing.T) {
	cmd := &PreCommitCmd{Repository: "odoo-ps/psbe-prod"}

	target, err := cmd.resolveTarget(context.Background(), testConfig(t))

	require.NoError(t, err)
	assert.Equal(t, "odoo-ps/psbe-prod", target.RepositoryFullName())
	assert.Nil(t, target.Database)
}

func TestResolveTargetUnknownDatabase(t *testing.T) {
	cmd := &PreCommitCmd{Database: "missing"}

	_, err := cmd.resolveTarget(context.Background(), testConfig(t))

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))
	assert.Contains(t, err.Error(), `unknown database "missing"`)
}

func TestResolveTargetDatabase(t *testing.T) {
	cfg := testConfig(t)

	registry, err := database.Open(cfg.Database.Path)
	require.NoError(t, err)
	require.NoError(t, registry.Save(context.Background(), database.Database{
		Name:       "prod",
		Version:    "17.0",
		Repository: "odoo-ps/psbe-prod",
	}))
	require.NoError(t, registry.Close())

	cmd := &PreCommitCmd{Database: "prod"}
	target, err := cmd.resolveTarget(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, target.Database)
	assert.Equal(t, "odoo-ps/psbe-prod", target.RepositoryFullName())
	assert.Equal(t, "17.0", string(target.StoredVersion()))
}
