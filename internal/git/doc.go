// Package git connects repositories identified by their full name
// ("org/repo") to a local clone and exposes the narrow set of version-control
// operations the workflow needs: clone, stage, commit, and a scoped stash
// guard protecting the working tree during scaffolding.
package git
