package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/odoo-odev/odev-plugin-project/cmd/odev-project/commands"
	"github.com/odoo-odev/odev-plugin-project/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("odev-project"),
		kong.Description("Companion tooling for Odoo development projects: pre-commit configuration and database registry."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, cli); err != nil {
		// Command errors carry the wrapped tool stderr; print them verbatim.
		_, _ = fmt.Fprintf(os.Stderr, "odev-project: %v\n", err)
		os.Exit(1)
	}
}
