package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDatabase   = "database"
	KeyRepository = "repository"
	KeyPath       = "path"
	KeyVersion    = "odoo_version"
	KeyRunID      = "run_id"
	KeyTool       = "tool"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Database(name string) slog.Attr { return slog.String(KeyDatabase, name) }
func Repository(r string) slog.Attr  { return slog.String(KeyRepository, r) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Version(v string) slog.Attr     { return slog.String(KeyVersion, v) }
func RunID(id string) slog.Attr      { return slog.String(KeyRunID, id) }
func Tool(name string) slog.Attr     { return slog.String(KeyTool, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
