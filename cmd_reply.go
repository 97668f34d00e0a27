package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var replyCmd = &cobra.Command{
	Use:   "reply <owner/repo> <comment-id> <text>",
	Short: "Reply to a review comment",
	Long: `Posts a reply in the thread containing the given review comment. The
comment ID is the numeric database ID shown by 'ghpr comments'.

Example:
  ghpr reply myorg/myrepo 456789 "Done, renamed in the latest push."`,
	RunE: runReply,
	Args: cobra.ExactArgs(3),
}

var commentCmd = &cobra.Command{
	Use:   "comment <owner/repo> <pr> <text>",
	Short: "Add a PR-level comment",
	Long: `Posts a general comment on a pull request, not anchored to a line.

Example:
  ghpr comment myorg/myrepo 42 "Rebased on main, PTAL."`,
	RunE: runComment,
	Args: cobra.ExactArgs(3),
}

func init() {
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(commentCmd)
}

func runReply(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	commentID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || commentID <= 0 {
		return fmt.Errorf("invalid comment ID: %s", args[1])
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	reply, err := client.ReplyToComment(cmd.Context(), owner, repo, commentID, args[2])
	if err != nil {
		return err
	}
	green.Printf("Reply posted (comment %d)\n", reply.ID)
	return nil
}

func runComment(cmd *cobra.Command, args []string) error {
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

	id, err := client.CreateIssueComment(cmd.Context(), owner, repo, number, args[2])
	if err != nil {
		return err
	}
	green.Printf("Comment posted (ID %d)\n", id)
	return nil
}
