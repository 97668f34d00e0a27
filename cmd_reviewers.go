package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reviewersCmd = &cobra.Command{
	Use:   "reviewers <owner/repo> <pr>",
	Short: "Add, remove or list requested reviewers",
	Long: `With --add or --remove, changes the requested reviewers on a PR.
Without either flag, lists the currently requested reviewers.

Examples:
  ghpr reviewers myorg/myrepo 42 --add alice,bob
  ghpr reviewers myorg/myrepo 42 --remove alice
  ghpr reviewers myorg/myrepo 42`,
	RunE: runReviewers,
	Args: cobra.ExactArgs(2),
}

var (
	flagReviewersAdd    string
	flagReviewersRemove string
)

func init() {
	reviewersCmd.Flags().StringVarP(&flagReviewersAdd, "add", "a", "", "Comma-separated reviewers to add")
	reviewersCmd.Flags().StringVar(&flagReviewersRemove, "remove", "", "Comma-separated reviewers to remove")
	rootCmd.AddCommand(reviewersCmd)
}

func runReviewers(cmd *cobra.Command, args []string) error {
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
	ctx := cmd.Context()

	add := splitList(flagReviewersAdd)
	remove := splitList(flagReviewersRemove)

	if len(add) > 0 {
		if err := client.RequestReviewers(ctx, owner, repo, number, add); err != nil {
			return err
		}
		green.Printf("Added reviewers: %v\n", add)
	}
	if len(remove) > 0 {
		if err := client.RemoveReviewers(ctx, owner, repo, number, remove); err != nil {
			return err
		}
		green.Printf("Removed reviewers: %v\n", remove)
	}
	if len(add) > 0 || len(remove) > 0 {
		return nil
	}

	pr, err := client.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return err
	}
	if len(pr.RequestedReviewers) == 0 {
		fmt.Println("No reviewers requested")
		return nil
	}
	fmt.Println("Requested reviewers:")
	for _, r := range pr.RequestedReviewers {
		fmt.Printf("  - %s\n", r)
	}
	return nil
}
