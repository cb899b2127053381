package copier

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"

	apperrors "github.com/odoo-odev/odev-plugin-project/internal/errors"
	"github.com/odoo-odev/odev-plugin-project/internal/logfields"
)

// CLI invokes the copier executable. It implements Engine.
type CLI struct {
	// Executable defaults to "copier" looked up on PATH.
	Executable string
}

// NewCLI returns a CLI engine using the copier binary from PATH.
func NewCLI() *CLI {
	return &CLI{Executable: "copier"}
}

// Copy runs `copier copy`. When opts.Defaults is false the invocation is
// interactive: the user answers the template's prompts on the terminal.
func (c *CLI) Copy(ctx context.Context, opts CopyOptions) error {
	args := copyArgs(opts)
	slog.Debug("Running templating copy", logfields.Tool(c.Executable), slog.Any("args", args))

	cmd := exec.CommandContext(ctx, c.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	if !opts.Defaults {
		// Interactive mode: the template prompts the user directly.
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		return apperrors.Toolf(err, stderr.String(), "templating copy from %q failed", opts.Source)
	}
	return nil
}

// Update runs `copier update` against the recorded answers file.
func (c *CLI) Update(ctx context.Context, opts UpdateOptions) error {
	args := updateArgs(opts)
	slog.Debug("Running templating update", logfields.Tool(c.Executable), slog.Any("args", args))

	cmd := exec.CommandContext(ctx, c.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		return apperrors.Toolf(err, stderr.String(), "templating update of %q failed", opts.DestPath)
	}
	return nil
}

// copyArgs builds the copier copy argument list. Split out for testability.
func copyArgs(opts CopyOptions) []string {
	args := []string{"copy"}
	args = append(args, commonArgs(opts.Data, opts.Overwrite, opts.Unsafe, opts.Defaults, opts.Quiet)...)
	return append(args, opts.Source, opts.DestPath)
}

// updateArgs builds the copier update argument list.
func updateArgs(opts UpdateOptions) []string {
	args := []string{"update"}
	if opts.AnswersFile != "" {
		args = append(args, "--answers-file", opts.AnswersFile)
	}
	args = append(args, commonArgs(opts.Data, opts.Overwrite, opts.Unsafe, opts.Defaults, opts.Quiet)...)
	return append(args, opts.DestPath)
}

func commonArgs(data map[string]string, overwrite, unsafe, defaults, quiet bool) []string {
	var args []string
	if overwrite {
		args = append(args, "--overwrite")
	}
	if unsafe {
		args = append(args, "--trust")
	}
	if defaults {
		args = append(args, "--defaults")
	}
	if quiet {
		args = append(args, "--quiet")
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--data", k+"="+data[k])
	}
	return args
}
