package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"
)

// Review-thread resolution lives only in the GraphQL API; the REST
// comment objects carry no resolved flag. These helpers look threads up
// by the database ID of any comment in them.

// gqlErr classifies a GraphQL call failure. The v4 API reports missing
// repositories, PRs and threads with an inline "Could not resolve"
// error on a 200 response, never a 404.
func gqlErr(op string, err error) error {
	if strings.Contains(err.Error(), "Could not resolve to a") {
		return apiErr(NotFoundError, op, err)
	}
	return apiErr(TransportError, op, err)
}

// reviewThreadsQuery pages through a PR's review threads.
type reviewThreadsQuery struct {
	Repository struct {
		PullRequest struct {
			ReviewThreads struct {
				Nodes []struct {
					ID         githubv4.ID
					IsResolved githubv4.Boolean
					Comments   struct {
						Nodes []struct {
							DatabaseID int64
						}
					} `graphql:"comments(first: 50)"`
				}
				PageInfo struct {
					HasNextPage githubv4.Boolean
					EndCursor   githubv4.String
				}
			} `graphql:"reviewThreads(first: 100, after: $after)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FindReviewThread returns the GraphQL node ID and resolution state of
// the thread containing the review comment with the given database ID.
// NotFoundError if no thread contains it.
func (c *Client) FindReviewThread(ctx context.Context, owner, repo string, number int, commentID int64) (string, bool, error) {
	op := fmt.Sprintf("find review thread %s/%s#%d comment %d", owner, repo, number, commentID)

	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
		"after":  (*githubv4.String)(nil),
	}

	for {
		var query reviewThreadsQuery
		if err := c.gql.Query(ctx, &query, vars); err != nil {
			return "", false, gqlErr(op, err)
		}

		threads := query.Repository.PullRequest.ReviewThreads
		for _, t := range threads.Nodes {
			for _, cm := range t.Comments.Nodes {
				if cm.DatabaseID == commentID {
					return t.ID.(string), bool(t.IsResolved), nil
				}
			}
		}

		if !threads.PageInfo.HasNextPage {
			break
		}
		vars["after"] = githubv4.NewString(threads.PageInfo.EndCursor)
	}

	return "", false, apiErr(NotFoundError, op, fmt.Errorf("no review thread contains comment %d", commentID))
}

// ThreadResolution maps each thread's root comment database ID to its
// resolved state, for overlaying onto REST comment listings.
func (c *Client) ThreadResolution(ctx context.Context, owner, repo string, number int) (map[int64]bool, error) {
	op := fmt.Sprintf("thread resolution %s/%s#%d", owner, repo, number)

	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
		"after":  (*githubv4.String)(nil),
	}

	result := make(map[int64]bool)
	for {
		var query reviewThreadsQuery
		if err := c.gql.Query(ctx, &query, vars); err != nil {
			return nil, gqlErr(op, err)
		}

		threads := query.Repository.PullRequest.ReviewThreads
		for _, t := range threads.Nodes {
			if len(t.Comments.Nodes) > 0 {
				result[t.Comments.Nodes[0].DatabaseID] = bool(t.IsResolved)
			}
		}

		if !threads.PageInfo.HasNextPage {
			break
		}
		vars["after"] = githubv4.NewString(threads.PageInfo.EndCursor)
	}

	return result, nil
}

// SetThreadResolved resolves or unresolves a review thread by node ID
// and returns the new state.
func (c *Client) SetThreadResolved(ctx context.Context, threadID string, resolved bool) (bool, error) {
	id := githubv4.ID(threadID)

	if resolved {
		var mutation struct {
			ResolveReviewThread struct {
				Thread struct {
					IsResolved githubv4.Boolean
				}
			} `graphql:"resolveReviewThread(input: $input)"`
		}
		input := githubv4.ResolveReviewThreadInput{ThreadID: id}
		if err := c.gql.Mutate(ctx, &mutation, input, nil); err != nil {
			return false, gqlErr("resolveReviewThread", err)
		}
		return bool(mutation.ResolveReviewThread.Thread.IsResolved), nil
	}

	var mutation struct {
		UnresolveReviewThread struct {
			Thread struct {
				IsResolved githubv4.Boolean
			}
		} `graphql:"unresolveReviewThread(input: $input)"`
	}
	input := githubv4.UnresolveReviewThreadInput{ThreadID: id}
	if err := c.gql.Mutate(ctx, &mutation, input, nil); err != nil {
		return false, gqlErr("unresolveReviewThread", err)
	}
	return bool(mutation.UnresolveReviewThread.Thread.IsResolved), nil
}
