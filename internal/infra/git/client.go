// Package git resolves project roots and branch names with go-git.
// It never creates or switches branches.
package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Ensure Client implements domain.BranchResolver.
var _ domain.BranchResolver = (*Client)(nil)

// ErrNotRepository is returned when the directory is not inside a git repository.
var ErrNotRepository = errors.New("not a git repository")

// Client provides read-only git operations.
type Client struct {
	repo     *git.Repository
	repoRoot string // Worktree root (parent of .git)
}

// NewClient opens the repository containing dir, searching parent directories.
func NewClient(dir string) (*Client, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	return &Client{
		repo:     repo,
		repoRoot: filepath.Clean(wt.Filesystem.Root()),
	}, nil
}

// FindRoot returns the repository root containing dir.
// Outside a repository it returns dir itself (cleaned and absolute).
func FindRoot(dir string) (string, error) {
	c, err := NewClient(dir)
	if err == nil {
		return c.RepoRoot(), nil
	}
	if !errors.Is(err, ErrNotRepository) {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// RepoRoot returns the repository root directory.
func (c *Client) RepoRoot() string {
	return c.repoRoot
}

// CurrentBranch returns the name of the checked-out branch.
// An unborn branch (no commits yet) still reports its name.
// A detached HEAD reports the short commit hash.
func (c *Client) CurrentBranch() (string, error) {
	head, err := c.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	hash := head.Hash().String()
	if len(hash) > 7 {
		hash = hash[:7]
	}
	return hash, nil
}
