package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <owner/repo> <pr>",
	Short: "Merge a pull request",
	Long: `Merges a pull request. Fails with PreconditionError if required checks
have not passed or the PR is not mergeable; nothing is retried.

The default merge method comes from config (merge_method, default
squash).

Examples:
  ghpr merge myorg/myrepo 42
  ghpr merge myorg/myrepo 42 --method rebase
  ghpr merge myorg/myrepo 42 --message "fix: tighten validation" --delete-branch`,
	RunE: runMerge,
	Args: cobra.ExactArgs(2),
}

var (
	flagMergeMethod       string
	flagMergeMessage      string
	flagMergeDeleteBranch bool
)

func init() {
	mergeCmd.Flags().StringVarP(&flagMergeMethod, "method", "m", "", "Merge method: merge, squash, rebase (default from config)")
	mergeCmd.Flags().StringVar(&flagMergeMessage, "message", "", "Commit message for the merge")
	mergeCmd.Flags().BoolVar(&flagMergeDeleteBranch, "delete-branch", false, "Delete the head branch after merging")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "PR number")
	if err != nil {
		return err
	}

	method := flagMergeMethod
	if method == "" {
		method = viper.GetString("merge_method")
	}
	switch method {
	case "merge", "squash", "rebase":
	default:
		return fmt.Errorf("invalid merge method %q: must be merge, squash or rebase", method)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Head branch name is needed before the merge if we are deleting it after.
	var headRef string
	if flagMergeDeleteBranch {
		pr, err := client.GetPullRequest(ctx, owner, repo, number)
		if err != nil {
			return err
		}
		headRef = pr.HeadRef
	}

	if err := client.MergePullRequest(ctx, owner, repo, number, method, flagMergeMessage); err != nil {
		return err
	}
	green.Printf("PR #%d merged (%s)\n", number, method)

	if flagMergeDeleteBranch && headRef != "" {
		if err := client.DeleteBranch(ctx, owner, repo, headRef); err != nil {
			// The merge already happened; branch deletion failing is not fatal.
			yellow.Printf("could not delete branch %s: %v\n", headRef, err)
			return nil
		}
		dim.Printf("deleted branch %s\n", headRef)
	}
	return nil
}
