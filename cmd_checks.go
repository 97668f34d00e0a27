package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checksCmd = &cobra.Command{
	Use:   "checks <owner/repo> <pr>",
	Short: "Show CI check status for a PR",
	Long: `Fetches the check runs attached to a PR's head commit.

Examples:
  ghpr checks myorg/myrepo 42
  ghpr checks myorg/myrepo 42 --raw`,
	RunE: runChecks,
	Args: cobra.ExactArgs(2),
}

var flagChecksRaw bool

func init() {
	checksCmd.Flags().BoolVarP(&flagChecksRaw, "raw", "r", false, "Output raw JSON")
	rootCmd.AddCommand(checksCmd)
}

func runChecks(cmd *cobra.Command, args []string) error {
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

	pr, err := client.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	checks, err := client.ListCheckRuns(ctx, owner, repo, pr.HeadSHA)
	if err != nil {
		return err
	}

	if flagChecksRaw {
		return printRaw(checks)
	}

	if len(checks) == 0 {
		fmt.Println("No checks found for this PR")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "NAME\tSTATUS\tCONCLUSION")
	for _, c := range checks {
		conclusion := c.Conclusion
		if conclusion == "" {
			conclusion = "pending"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Status, conclusionColor(c.Conclusion).Sprint(conclusion))
	}
	return w.Flush()
}
