package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <owner/repo>",
	Short: "Create a pull request",
	Long: `Creates a pull request from the current branch (or --head) into the
base branch, optionally attaching labels, reviewers and assignees.

Examples:
  ghpr create myorg/myrepo --title "fix: tighten validation" --body "..."
  ghpr create myorg/myrepo --title "feat: x" --body-file /tmp/body.md --draft
  ghpr create myorg/myrepo --title "feat: x" --body "..." --reviewers alice,bob`,
	RunE: runCreate,
	Args: cobra.ExactArgs(1),
}

var (
	flagCreateTitle     string
	flagCreateBody      string
	flagCreateBodyFile  string
	flagCreateBase      string
	flagCreateHead      string
	flagCreateDraft     bool
	flagCreateLabels    string
	flagCreateReviewers string
	flagCreateAssignees string
)

func init() {
	createCmd.Flags().StringVarP(&flagCreateTitle, "title", "t", "", "PR title")
	createCmd.Flags().StringVarP(&flagCreateBody, "body", "b", "", "PR body")
	createCmd.Flags().StringVarP(&flagCreateBodyFile, "body-file", "f", "", "Read body from file")
	createCmd.Flags().StringVar(&flagCreateBase, "base", "main", "Base branch to merge into")
	createCmd.Flags().StringVar(&flagCreateHead, "head", "", "Head branch (default: current branch)")
	createCmd.Flags().BoolVarP(&flagCreateDraft, "draft", "d", false, "Create as draft PR")
	createCmd.Flags().StringVarP(&flagCreateLabels, "labels", "l", "", "Comma-separated labels")
	createCmd.Flags().StringVarP(&flagCreateReviewers, "reviewers", "r", "", "Comma-separated reviewers")
	createCmd.Flags().StringVarP(&flagCreateAssignees, "assignees", "a", "", "Comma-separated assignees")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagsMutuallyExclusive("body", "body-file")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}

	body := flagCreateBody
	if flagCreateBodyFile != "" {
		data, err := os.ReadFile(flagCreateBodyFile)
		if err != nil {
			return fmt.Errorf("reading body file: %w", err)
		}
		body = string(data)
	}

	head := flagCreateHead
	if head == "" {
		git, err := NewGit(".")
		if err != nil {
			return fmt.Errorf("no --head given and %w", err)
		}
		head, err = git.CurrentBranch()
		if err != nil {
			return fmt.Errorf("getting current branch: %w", err)
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	pr, err := client.CreatePullRequest(ctx, owner, repo, NewPullRequest{
		Title: flagCreateTitle,
		Body:  body,
		Base:  flagCreateBase,
		Head:  head,
		Draft: flagCreateDraft,
	})
	if err != nil {
		return err
	}
	green.Printf("PR #%d created\n", pr.Number)

	if labels := splitList(flagCreateLabels); len(labels) > 0 {
		if err := client.AddLabels(ctx, owner, repo, pr.Number, labels); err != nil {
			return err
		}
		dim.Printf("added labels: %v\n", labels)
	}
	if reviewers := splitList(flagCreateReviewers); len(reviewers) > 0 {
		if err := client.RequestReviewers(ctx, owner, repo, pr.Number, reviewers); err != nil {
			return err
		}
		dim.Printf("requested reviewers: %v\n", reviewers)
	}
	if assignees := splitList(flagCreateAssignees); len(assignees) > 0 {
		if err := client.AddAssignees(ctx, owner, repo, pr.Number, assignees); err != nil {
			return err
		}
		dim.Printf("added assignees: %v\n", assignees)
	}

	fmt.Println(pr.URL)
	return nil
}
