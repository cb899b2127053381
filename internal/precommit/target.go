package precommit

import (
	"github.com/odoo-odev/odev-plugin-project/internal/database"
	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/odoo"
)

// Target selects the repository the workflow operates on: either a registered
// database (whose linked repository and stored version are used) or an
// explicit repository full name. Exactly one selector must be set.
type Target struct {
	Database   *database.Database
	Repository string
}

// DatabaseTarget targets the repository linked to a registered database.
func DatabaseTarget(db *database.Database) Target {
	return Target{Database: db}
}

// RepositoryTarget targets a repository by its full name ("org/repo").
func RepositoryTarget(fullName string) Target {
	return Target{Repository: fullName}
}

// Validate enforces the exactly-one-selector precondition. It runs before any
// side effect.
func (t Target) Validate() error {
	switch {
	case t.Database != nil && t.Repository != "":
		return apperrors.Configf("database and repository are mutually exclusive")
	case t.Database == nil && t.Repository == "":
		return apperrors.Configf("a database or a repository must be selected")
	case t.Database != nil && t.Database.Repository == "":
		return apperrors.Configf("no repository linked to database %q", t.Database.Name)
	}
	return nil
}

// RepositoryFullName returns the full name of the selected repository.
// Only meaningful after Validate.
func (t Target) RepositoryFullName() string {
	if t.Repository != "" {
		return t.Repository
	}
	if t.Database != nil {
		return t.Database.Repository
	}
	return ""
}

// StoredVersion returns the version recorded on the database record, empty
// when targeting a bare repository or when the record has none.
func (t Target) StoredVersion() odoo.Version {
	if t.Database == nil {
		return ""
	}
	return odoo.ParseVersion(t.Database.Version)
}
