package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue <owner/repo> <number>",
	Short: "Show issue details",
	Long: `Fetches an issue and prints its title, state, labels, assignees and
body.

Examples:
  ghpr issue myorg/myrepo 123
  ghpr issue myorg/myrepo 123 --raw`,
	RunE: runIssue,
	Args: cobra.ExactArgs(2),
}

var flagIssueRaw bool

func init() {
	issueCmd.Flags().BoolVarP(&flagIssueRaw, "raw", "r", false, "Output raw JSON")
	rootCmd.AddCommand(issueCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "issue number")
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	issue, err := client.GetIssue(cmd.Context(), owner, repo, number)
	if err != nil {
		return err
	}

	if flagIssueRaw {
		return printRaw(issue)
	}

	bold.Printf("Issue #%d: %s\n", issue.Number, issue.Title)
	stateColor(issue.State, false).Println(strings.ToUpper(issue.State))
	dim.Printf("opened by %s on %s\n", issue.Author, issue.CreatedAt.Format("2006-01-02"))
	if len(issue.Labels) > 0 {
		fmt.Printf("Labels: %s\n", strings.Join(issue.Labels, ", "))
	}
	if len(issue.Assignees) > 0 {
		fmt.Printf("Assignees: %s\n", strings.Join(issue.Assignees, ", "))
	}
	if issue.Body != "" {
		fmt.Printf("\n%s\n", issue.Body)
	}
	return nil
}
