package build

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitAuthor signs commits made in generated projects.
var CommitAuthor = object.Signature{Name: "bfgo", Email: "bfgo@localhost"}

// commitProject initializes (or opens) a repository in the workspace, stages
// every file and commits. An unchanged tree produces no commit and a zero hash.
func commitProject(w *Workspace, message string, at time.Time) (plumbing.Hash, error) {
	repo, err := git.PlainInit(w.Dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(w.Dir)
	}
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("opening repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("staging files: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("reading status: %w", err)
	}
	if status.IsClean() {
		return plumbing.ZeroHash, nil
	}

	author := CommitAuthor
	author.When = at
	hash, err := wt.Commit(message, &git.CommitOptions{Author: &author})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("committing: %w", err)
	}
	return hash, nil
}
