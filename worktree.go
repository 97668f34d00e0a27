package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Git runs git commands in a working directory. Used by checkout and
// cleanup to manage per-PR review worktrees.
type Git struct {
	dir string
}

// NewGit returns a runner for the repository containing dir, or an error
// if dir is not inside a git repository.
func NewGit(dir string) (*Git, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("not a git repository")
	}
	return &Git{dir: strings.TrimSpace(string(out))}, nil
}

func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), string(exitErr.Stderr))
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the checked-out branch name.
func (g *Git) CurrentBranch() (string, error) {
	return g.run("rev-parse", "--abbrev-ref", "HEAD")
}

// FetchPRBranch fetches a PR's head ref into a local branch.
func (g *Git) FetchPRBranch(number int, branch string) error {
	refspec := fmt.Sprintf("pull/%d/head:%s", number, branch)
	_, err := g.run("fetch", "origin", refspec)
	return err
}

// AddWorktree creates a worktree at path checked out to branch.
func (g *Git) AddWorktree(path, branch string) error {
	_, err := g.run("worktree", "add", path, branch)
	return err
}

// RemoveWorktree force-removes the worktree at path.
func (g *Git) RemoveWorktree(path string) error {
	_, err := g.run("worktree", "remove", path, "--force")
	return err
}

// worktreePath is where a PR's review worktree lives, keyed the same way
// as the draft store so one session's artifacts are easy to find and
// remove together.
func worktreePath(owner, repo string, number int) string {
	base := viper.GetString("worktree_dir")
	return filepath.Join(base, fmt.Sprintf("ghpr-%s-%s-%d", owner, repo, number))
}

// worktreeExists reports whether the path is already present.
func worktreeExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
