package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:   "comments <owner/repo> <pr>",
	Short: "List review comments on a PR",
	Long: `Lists inline review comments. Resolution state comes from the GraphQL
review-thread data, since the REST comment objects do not carry it.

--unresolved keeps only comments whose thread is unresolved. --by-file
groups the same result set by path; it is a projection, not a different
query.

Examples:
  ghpr comments myorg/myrepo 42
  ghpr comments myorg/myrepo 42 --unresolved
  ghpr comments myorg/myrepo 42 --by-file
  ghpr comments myorg/myrepo 42 --raw`,
	RunE: runComments,
	Args: cobra.ExactArgs(2),
}

var (
	flagCommentsUnresolved bool
	flagCommentsByFile     bool
	flagCommentsRaw        bool
)

func init() {
	commentsCmd.Flags().BoolVarP(&flagCommentsUnresolved, "unresolved", "u", false, "Show only comments in unresolved threads")
	commentsCmd.Flags().BoolVar(&flagCommentsByFile, "by-file", false, "Group comments by file path")
	commentsCmd.Flags().BoolVarP(&flagCommentsRaw, "raw", "r", false, "Output raw JSON")
	commentsCmd.MarkFlagsMutuallyExclusive("unresolved", "by-file")
	rootCmd.AddCommand(commentsCmd)
}

// overlayResolution fills each comment's Resolved flag from the thread
// resolution map. Replies inherit the state of their thread root.
func overlayResolution(comments []ReviewComment, resolution map[int64]bool) []ReviewComment {
	out := make([]ReviewComment, len(comments))
	for i, c := range comments {
		root := c.ID
		if c.InReplyTo != 0 {
			root = c.InReplyTo
		}
		c.Resolved = resolution[root]
		out[i] = c
	}
	return out
}

// filterUnresolved keeps only comments whose thread is unresolved,
// preserving order.
func filterUnresolved(comments []ReviewComment) []ReviewComment {
	var out []ReviewComment
	for _, c := range comments {
		if !c.Resolved {
			out = append(out, c)
		}
	}
	return out
}

// groupByFile projects the comment list into per-path groups, keeping
// first-seen path order and per-path comment order.
func groupByFile(comments []ReviewComment) ([]string, map[string][]ReviewComment) {
	var paths []string
	groups := make(map[string][]ReviewComment)
	for _, c := range comments {
		if _, ok := groups[c.Path]; !ok {
			paths = append(paths, c.Path)
		}
		groups[c.Path] = append(groups[c.Path], c)
	}
	return paths, groups
}

func runComments(cmd *cobra.Command, args []string) error {
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

	comments, err := client.ListReviewComments(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	resolution, err := client.ThreadResolution(ctx, owner, repo, number)
	if err != nil {
		return err
	}
	comments = overlayResolution(comments, resolution)

	if flagCommentsUnresolved {
		comments = filterUnresolved(comments)
	}

	if flagCommentsRaw {
		return printRaw(comments)
	}

	if len(comments) == 0 {
		fmt.Println("No comments found")
		return nil
	}

	if flagCommentsByFile {
		paths, groups := groupByFile(comments)
		for _, path := range paths {
			cyan.Println(path)
			for _, c := range groups[path] {
				fmt.Printf("  line %d (ID %d): %s\n", c.Line, c.ID, truncate(c.Body, 100))
			}
		}
		return nil
	}

	for _, c := range comments {
		bold.Printf("Comment %d", c.ID)
		if c.Resolved {
			dim.Print(" [resolved]")
		}
		fmt.Println()
		fmt.Printf("%s:%d (%s) by %s\n", c.Path, c.Line, c.Side, c.Author)
		fmt.Println(c.Body)
		dim.Println("----------------------------------------")
	}
	return nil
}
