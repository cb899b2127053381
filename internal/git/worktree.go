package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// AddAll stages every change in the working tree, including untracked files
// and deletions.
func (c *Connector) AddAll() error {
	wt, err := c.worktree()
	if err != nil {
		return err
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit records the staged changes. Author and committer come from the
// repository's git configuration.
func (c *Connector) Commit(message string) error {
	wt, err := c.worktree()
	if err != nil {
		return err
	}
	if _, err := wt.Commit(message, &gogit.CommitOptions{}); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}
	return nil
}

func (c *Connector) worktree() (*gogit.Worktree, error) {
	repo, err := c.Open()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return wt, nil
}
