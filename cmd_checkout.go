package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <owner/repo> <pr>",
	Short: "Check out a PR into a review worktree",
	Long: `Fetches the PR branch and creates a git worktree for it under the
configured worktree directory, so the review happens outside the main
working copy. Prints the worktree path. An existing worktree for the
PR is reused.

Must be run inside a clone of the repository.

Example:
  ghpr checkout myorg/myrepo 42`,
	RunE: runCheckout,
	Args: cobra.ExactArgs(2),
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <owner/repo> <pr>",
	Short: "Remove a PR's review worktree",
	Long: `Removes the worktree created by 'ghpr checkout' once the review is
done.

Example:
  ghpr cleanup myorg/myrepo 42`,
	RunE: runCleanup,
	Args: cobra.ExactArgs(2),
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(cleanupCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "PR number")
	if err != nil {
		return err
	}

	path := worktreePath(owner, repo, number)
	if worktreeExists(path) {
		yellow.Fprintf(os.Stderr, "worktree already exists at %s\n", path)
		fmt.Println(path)
		return nil
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	pr, err := client.GetPullRequest(cmd.Context(), owner, repo, number)
	if err != nil {
		return err
	}
	if pr.HeadRef == "" {
		return fmt.Errorf("could not determine PR branch name")
	}

	git, err := NewGit(".")
	if err != nil {
		return err
	}

	if err := git.FetchPRBranch(number, pr.HeadRef); err != nil {
		return fmt.Errorf("fetching PR branch: %w", err)
	}
	if err := git.AddWorktree(path, pr.HeadRef); err != nil {
		return fmt.Errorf("creating worktree: %w", err)
	}

	green.Fprintf(os.Stderr, "created worktree on branch %s\n", pr.HeadRef)
	fmt.Println(path)
	return nil
}

func runCleanup(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "PR number")
	if err != nil {
		return err
	}

	path := worktreePath(owner, repo, number)
	if !worktreeExists(path) {
		yellow.Printf("worktree does not exist: %s\n", path)
		return nil
	}

	git, err := NewGit(".")
	if err != nil {
		return err
	}
	if err := git.RemoveWorktree(path); err != nil {
		return fmt.Errorf("removing worktree: %w", err)
	}

	green.Printf("removed worktree %s\n", path)
	return nil
}
