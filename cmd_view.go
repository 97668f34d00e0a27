package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <owner/repo> <pr>",
	Short: "Show PR details",
	Long: `Fetches a pull request and prints its metadata, branches, diff stats
and review states.

Examples:
  ghpr view myorg/myrepo 42
  ghpr view myorg/myrepo 42 --raw`,
	RunE: runView,
	Args: cobra.ExactArgs(2),
}

var listCmd = &cobra.Command{
	Use:   "list <owner/repo>",
	Short: "List pull requests",
	Long: `Lists pull requests in a repository, preserving server ordering.

Examples:
  ghpr list myorg/myrepo
  ghpr list myorg/myrepo --state closed --raw`,
	RunE: runList,
	Args: cobra.ExactArgs(1),
}

var (
	flagViewRaw   bool
	flagListRaw   bool
	flagListState string
)

func init() {
	viewCmd.Flags().BoolVarP(&flagViewRaw, "raw", "r", false, "Output raw JSON")
	listCmd.Flags().BoolVarP(&flagListRaw, "raw", "r", false, "Output raw JSON")
	listCmd.Flags().StringVarP(&flagListState, "state", "s", "open", "Filter by state: open, closed, all")
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(listCmd)
}

func runView(cmd *cobra.Command, args []string) error {
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

	if flagViewRaw {
		return printRaw(pr)
	}

	bold.Printf("PR #%d: %s\n", pr.Number, pr.Title)
	state := strings.ToUpper(pr.State)
	if pr.Merged {
		state = "MERGED"
	}
	if pr.IsDraft {
		state += " (draft)"
	}
	stateColor(pr.State, pr.Merged).Println(state)
	dim.Printf("opened by %s\n", pr.Author)
	fmt.Printf("%s -> %s (head %s)\n", pr.HeadRef, pr.BaseRef, short(pr.HeadSHA))
	fmt.Printf("+%d/-%d across %d files\n", pr.Additions, pr.Deletions, pr.ChangedFiles)
	if len(pr.RequestedReviewers) > 0 {
		fmt.Printf("Requested reviewers: %s\n", strings.Join(pr.RequestedReviewers, ", "))
	}
	if pr.Body != "" {
		fmt.Printf("\n%s\n", pr.Body)
	}

	reviews, err := client.ListReviews(cmd.Context(), owner, repo, number)
	if err != nil {
		return err
	}
	if len(reviews) > 0 {
		fmt.Println("\nReviews:")
		for _, r := range reviews {
			fmt.Printf("  %s: ", r.Author)
			reviewStateColor(r.State).Println(r.State)
		}
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	prs, err := client.ListPullRequests(cmd.Context(), owner, repo, flagListState)
	if err != nil {
		return err
	}

	if flagListRaw {
		return printRaw(prs)
	}

	if len(prs) == 0 {
		fmt.Printf("No %s pull requests in %s/%s\n", flagListState, owner, repo)
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "#\tTITLE\tAUTHOR\tBRANCH\tUPDATED")
	for _, pr := range prs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			pr.Number, truncate(pr.Title, 50), pr.Author, truncate(pr.HeadRef, 24),
			pr.UpdatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
