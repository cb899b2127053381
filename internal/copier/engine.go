// Package copier drives the Copier templating engine, which scaffolds and
// updates configuration files from a remote template repository. The engine
// itself is an external tool; this package only shapes its invocations and
// reads the answers file it leaves behind.
package copier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AnswersFile is the marker file Copier writes at the repository root to
// record prior templating choices. Its presence distinguishes a fresh install
// from an update.
const AnswersFile = ".copier-answers.yml"

// Engine is the narrow templating interface the workflow depends on.
type Engine interface {
	// Copy scaffolds from a remote template into a destination directory.
	Copy(ctx context.Context, opts CopyOptions) error
	// Update re-applies the template recorded in an existing answers file.
	Update(ctx context.Context, opts UpdateOptions) error
}

// CopyOptions parameterizes a fresh copy from a remote template.
type CopyOptions struct {
	// Source is the template location, e.g. "gh:odoo-ps/psbe-ps-tech-tools".
	Source   string
	DestPath string

	// Data is passed to the template as answers ("odoo_version" most notably).
	Data map[string]string

	Overwrite bool
	// Unsafe permits the template to run arbitrary setup tasks.
	Unsafe bool
	// Defaults suppresses prompting and accepts default answers.
	Defaults bool
	Quiet    bool
}

// UpdateOptions parameterizes a non-interactive update driven by the answers
// file recorded by a previous copy.
type UpdateOptions struct {
	DestPath string
	Data     map[string]string

	// AnswersFile is relative to DestPath.
	AnswersFile string

	Overwrite bool
	Unsafe    bool
	Defaults  bool
	Quiet     bool
}

// HasAnswersFile reports whether repoPath contains a Copier answers file.
func HasAnswersFile(repoPath string) bool {
	info, err := os.Stat(filepath.Join(repoPath, AnswersFile))
	return err == nil && info.Mode().IsRegular()
}

// Answers is the subset of the answers file this workflow cares about.
// The remaining keys are the template's own recorded answers.
type Answers struct {
	Commit string `yaml:"_commit"`
	Source string `yaml:"_src_path"`
}

// ReadAnswers parses the answers file at the repository root.
func ReadAnswers(repoPath string) (*Answers, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, AnswersFile))
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}
	var a Answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse answers file: %w", err)
	}
	return &a, nil
}
