package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews <owner/repo> <pr>",
	Short: "List reviews on a PR",
	Long: `Lists all reviews submitted on a pull request.

Examples:
  ghpr reviews myorg/myrepo 42
  ghpr reviews myorg/myrepo 42 --raw`,
	RunE: runReviews,
	Args: cobra.ExactArgs(2),
}

var headCmd = &cobra.Command{
	Use:   "head <owner/repo> <pr>",
	Short: "Print a PR's head commit SHA",
	Long: `Prints the current head commit SHA of a pull request. The head moves
whenever new commits are pushed, so re-run this before acting on diff
line numbers.

Example:
  ghpr head myorg/myrepo 42`,
	RunE: runHead,
	Args: cobra.ExactArgs(2),
}

var flagReviewsRaw bool

func init() {
	reviewsCmd.Flags().BoolVarP(&flagReviewsRaw, "raw", "r", false, "Output raw JSON")
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(headCmd)
}

func runReviews(cmd *cobra.Command, args []string) error {
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

	reviews, err := client.ListReviews(cmd.Context(), owner, repo, number)
	if err != nil {
		return err
	}

	if flagReviewsRaw {
		return printRaw(reviews)
	}

	if len(reviews) == 0 {
		fmt.Println("No reviews found")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "ID\tAUTHOR\tSTATE\tSUBMITTED")
	for _, r := range reviews {
		submitted := "pending"
		if r.SubmittedAt != nil {
			submitted = r.SubmittedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Author, reviewStateColor(r.State).Sprint(r.State), submitted)
	}
	return w.Flush()
}

func runHead(cmd *cobra.Command, args []string) error {
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

	pr, err := client.GetPullRequest(cmd.Context(), owner, repo, number)
	if err != nil {
		return err
	}
	fmt.Println(pr.HeadSHA)
	return nil
}
