package main

import (
	"context"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <owner/repo> <pr>",
	Short: "Resolve or unresolve a review thread",
	Long: `Marks the review thread containing the given comment as resolved (or
unresolved with --unresolve). Resolving an already-resolved thread is a
no-op success, so the operation is safe to repeat.

Examples:
  ghpr resolve myorg/myrepo 42 --comment-id 456789
  ghpr resolve myorg/myrepo 42 --comment-id 456789 --unresolve`,
	RunE: runResolve,
	Args: cobra.ExactArgs(2),
}

var (
	flagResolveCommentID int64
	flagResolveUnresolve bool
)

func init() {
	resolveCmd.Flags().Int64VarP(&flagResolveCommentID, "comment-id", "c", 0, "Review comment ID identifying the thread")
	resolveCmd.Flags().BoolVar(&flagResolveUnresolve, "unresolve", false, "Mark the thread as unresolved instead")
	resolveCmd.MarkFlagRequired("comment-id")
	rootCmd.AddCommand(resolveCmd)
}

// setResolution looks up the thread containing commentID and mutates it
// only when it is not already in the wanted state, so repeating the
// operation converges on the same end state without extra mutations.
// Returns whether a mutation was sent and the resulting state.
func setResolution(ctx context.Context, client *Client, owner, repo string, number int, commentID int64, want bool) (bool, bool, error) {
	threadID, isResolved, err := client.FindReviewThread(ctx, owner, repo, number, commentID)
	if err != nil {
		return false, false, err
	}
	if isResolved == want {
		return false, isResolved, nil
	}
	newState, err := client.SetThreadResolved(ctx, threadID, want)
	if err != nil {
		return false, false, err
	}
	return true, newState, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "PR number")
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	want := !flagResolveUnresolve
	changed, state, err := setResolution(cmd.Context(), client, owner, repo, number, flagResolveCommentID, want)
	if err != nil {
		return err
	}
	if !changed {
		dim.Printf("Thread already %s\n", resolvedWord(state))
		return nil
	}
	green.Printf("Thread is now %s\n", resolvedWord(state))
	return nil
}

func resolvedWord(resolved bool) string {
	if resolved {
		return "resolved"
	}
	return "unresolved"
}
