package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initReviewCmd = &cobra.Command{
	Use:   "init-review <owner/repo> <pr>",
	Short: "Start a batched review session",
	Long: `Fetches the PR's current head commit and creates an empty draft review
keyed to it. Comments added with 'ghpr add-comment' accumulate in the
draft until 'ghpr post' submits everything in one call.

If the PR head advances before posting, the submission fails and the
draft survives for correction.

Example:
  ghpr init-review myorg/myrepo 42`,
	RunE: runInitReview,
	Args: cobra.ExactArgs(2),
}

var addCommentCmd = &cobra.Command{
	Use:   "add-comment <owner/repo> <pr>",
	Short: "Add a comment to the draft review",
	Long: `Appends an inline comment to the draft review. Purely local; nothing
is sent until 'ghpr post'.

Examples:
  ghpr add-comment myorg/myrepo 42 --path src/a.go --line 10 --body "Nit: rename"
  ghpr add-comment myorg/myrepo 42 --path src/a.go --line 3 --side LEFT --body "This was load-bearing"`,
	RunE: runAddComment,
	Args: cobra.ExactArgs(2),
}

var setVerdictCmd = &cobra.Command{
	Use:   "set-verdict <owner/repo> <pr> <verdict>",
	Short: "Set the draft review's overall verdict",
	Long: `Sets the draft's verdict: APPROVE, REQUEST_CHANGES or COMMENT. A
summary body is required unless approving with no comments.

Examples:
  ghpr set-verdict myorg/myrepo 42 APPROVE
  ghpr set-verdict myorg/myrepo 42 REQUEST_CHANGES --summary "Needs a rename"`,
	RunE: runSetVerdict,
	Args: cobra.ExactArgs(3),
}

var postCmd = &cobra.Command{
	Use:   "post <owner/repo> <pr> [review-file]",
	Short: "Submit the draft review",
	Long: `Submits the accumulated draft review as a single batched review. On
success the draft file is deleted; a repeated post therefore fails
rather than submitting twice.

If the PR's head commit no longer matches the draft's, the submission
fails with ConflictError and the draft is left intact so line numbers
can be re-resolved.

An explicit review-file argument submits that JSON document instead of
the stored draft (and deletes it on success).

Examples:
  ghpr post myorg/myrepo 42
  ghpr post myorg/myrepo 42 /tmp/my-review.json`,
	RunE: runPost,
	Args: cobra.RangeArgs(2, 3),
}

var (
	flagAddPath    string
	flagAddLine    int
	flagAddSide    string
	flagAddBody    string
	flagVerdictSum string
)

func init() {
	addCommentCmd.Flags().StringVar(&flagAddPath, "path", "", "File path the comment is anchored to")
	addCommentCmd.Flags().IntVar(&flagAddLine, "line", 0, "Line number in the diff")
	addCommentCmd.Flags().StringVar(&flagAddSide, "side", "RIGHT", "Diff side: LEFT or RIGHT")
	addCommentCmd.Flags().StringVar(&flagAddBody, "body", "", "Comment text")
	addCommentCmd.MarkFlagRequired("path")
	addCommentCmd.MarkFlagRequired("line")
	addCommentCmd.MarkFlagRequired("body")

	setVerdictCmd.Flags().StringVarP(&flagVerdictSum, "summary", "s", "", "Review summary body")

	rootCmd.AddCommand(initReviewCmd)
	rootCmd.AddCommand(addCommentCmd)
	rootCmd.AddCommand(setVerdictCmd)
	rootCmd.AddCommand(postCmd)
}

func runInitReview(cmd *cobra.Command, args []string) error {
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

	store := NewDraftStore()
	draft := NewDraftReview(owner, repo, number, pr.HeadSHA)
	if err := store.Save(draft); err != nil {
		return err
	}

	green.Printf("Draft review created for %s/%s#%d at head %s\n", owner, repo, number, short(pr.HeadSHA))
	fmt.Println(store.Path(owner, repo, number))
	return nil
}

func runAddComment(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "PR number")
	if err != nil {
		return err
	}

	store := NewDraftStore()
	draft, err := store.Load(owner, repo, number)
	if err != nil {
		return err
	}

	if err := draft.AddComment(flagAddPath, flagAddLine, DiffSide(flagAddSide), flagAddBody); err != nil {
		return err
	}
	if err := store.Save(draft); err != nil {
		return err
	}

	green.Printf("Comment added (%d pending)\n", len(draft.Comments))
	return nil
}

func runSetVerdict(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "PR number")
	if err != nil {
		return err
	}

	store := NewDraftStore()
	draft, err := store.Load(owner, repo, number)
	if err != nil {
		return err
	}

	if err := draft.SetVerdict(ReviewEvent(args[2]), flagVerdictSum); err != nil {
		return err
	}
	if err := store.Save(draft); err != nil {
		return err
	}

	green.Printf("Verdict set to %s\n", draft.Event)
	return nil
}

func runPost(cmd *cobra.Command, args []string) error {
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

	// Explicit review-file form: submit the given document, then remove it.
	if len(args) == 3 {
		draft, err := LoadDraftFile(args[2])
		if err != nil {
			return err
		}
		draft.Owner, draft.Repo, draft.Number = owner, repo, number
		reviewID, err := draft.Submit(ctx, client, nil)
		if err != nil {
			yellow.Fprintln(os.Stderr, "review file preserved for correction")
			return err
		}
		if err := os.Remove(args[2]); err != nil {
			return fmt.Errorf("review %d posted but could not remove %s: %w", reviewID, args[2], err)
		}
		green.Printf("Review posted (ID %d)\n", reviewID)
		return nil
	}

	store := NewDraftStore()
	draft, err := store.Load(owner, repo, number)
	if err != nil {
		return err
	}

	reviewID, err := draft.Submit(ctx, client, store)
	if err != nil {
		if IsKind(err, ConflictError) {
			yellow.Fprintln(os.Stderr, "draft preserved; run 'ghpr init-review' again or fix line numbers, then retry")
		}
		return err
	}

	green.Printf("Review posted (ID %d)\n", reviewID)
	return nil
}
