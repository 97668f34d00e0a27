package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Client bundles the GitHub REST and GraphQL clients behind our typed
// accessors. Both share one authenticated HTTP client layered over an
// in-memory ETag cache, so repeated reads within an invocation spend
// conditional requests instead of rate limit.
type Client struct {
	rest *gh.Client
	gql  *githubv4.Client
}

// NewClient creates a Client authenticated with the given token.
func NewClient(token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: src,
			Base:   httpcache.NewMemoryCacheTransport(),
		},
	}
	return &Client{
		rest: gh.NewClient(httpClient),
		gql:  githubv4.NewClient(httpClient),
	}
}

// NewTestClient points both API clients at the given base URL, allowing
// an httptest server to stand in for GitHub.
func NewTestClient(httpClient *http.Client, baseURL string) (*Client, error) {
	rest := gh.NewClient(httpClient)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	// go-github requires a trailing slash on the base URL.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	rest.BaseURL = u

	gqlURL := *u
	gqlURL.Path = "/graphql"

	return &Client{
		rest: rest,
		gql:  githubv4.NewEnterpriseClient(gqlURL.String(), httpClient),
	}, nil
}

// logRateLimit records rate-limit headroom after each REST call.
func logRateLimit(resp *gh.Response, op string) {
	if resp == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"op":             op,
		"rate_remaining": resp.Rate.Remaining,
		"rate_limit":     resp.Rate.Limit,
	}).Debug("github api call")

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		logrus.WithFields(logrus.Fields{
			"remaining": resp.Rate.Remaining,
			"reset_in":  time.Until(resp.Rate.Reset.Time).Round(time.Second),
		}).Warn("github rate limit low")
	}
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	op := fmt.Sprintf("get issue %s/%s#%d", owner, repo, number)
	is, resp, err := c.rest.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return mapIssue(is), nil
}

// GetPullRequest fetches a single PR, including its current head SHA.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	op := fmt.Sprintf("get pr %s/%s#%d", owner, repo, number)
	pr, resp, err := c.rest.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return mapPullRequest(pr), nil
}

// ListPullRequests lists PRs filtered by state ("open", "closed", "all"),
// in server order.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, state string) ([]PullRequest, error) {
	op := fmt.Sprintf("list prs %s/%s", owner, repo)
	opts := &gh.PullRequestListOptions{
		State:       state,
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []PullRequest
	for {
		prs, resp, err := c.rest.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, classify(op, resp, err, false)
		}
		logRateLimit(resp, op)
		for _, pr := range prs {
			all = append(all, *mapPullRequest(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreatePullRequest opens a new PR.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, npr NewPullRequest) (*PullRequest, error) {
	op := fmt.Sprintf("create pr %s/%s", owner, repo)
	pr, resp, err := c.rest.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title: gh.Ptr(npr.Title),
		Body:  gh.Ptr(npr.Body),
		Base:  gh.Ptr(npr.Base),
		Head:  gh.Ptr(npr.Head),
		Draft: gh.Ptr(npr.Draft),
	})
	if err != nil {
		return nil, classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return mapPullRequest(pr), nil
}

// ListFiles returns a PR's changed files, preserving server ordering.
func (c *Client) ListFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	op := fmt.Sprintf("list files %s/%s#%d", owner, repo, number)
	opts := &gh.ListOptions{PerPage: 100}
	var all []ChangedFile
	for {
		files, resp, err := c.rest.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classify(op, resp, err, false)
		}
		logRateLimit(resp, op)
		for _, f := range files {
			all = append(all, mapChangedFile(f))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListReviewComments returns all inline review comments on a PR. The
// Resolved flag is left false here; callers needing it overlay the
// GraphQL thread-resolution map.
func (c *Client) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]ReviewComment, error) {
	op := fmt.Sprintf("list review comments %s/%s#%d", owner, repo, number)
	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []ReviewComment
	for {
		comments, resp, err := c.rest.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classify(op, resp, err, false)
		}
		logRateLimit(resp, op)
		for _, cm := range comments {
			all = append(all, mapReviewComment(cm))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetReviewComment fetches one review comment by its database ID, along
// with the number of the PR it belongs to.
func (c *Client) GetReviewComment(ctx context.Context, owner, repo string, commentID int64) (*ReviewComment, int, error) {
	op := fmt.Sprintf("get review comment %s/%s %d", owner, repo, commentID)
	cm, resp, err := c.rest.PullRequests.GetComment(ctx, owner, repo, commentID)
	if err != nil {
		return nil, 0, classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	number, err := pullNumberFromURL(cm.GetPullRequestURL())
	if err != nil {
		return nil, 0, apiErr(NotFoundError, op, err)
	}
	mapped := mapReviewComment(cm)
	return &mapped, number, nil
}

// ReplyToComment posts a reply in the thread rooted at commentID. The PR
// number is looked up from the target comment, so callers only need the
// comment's database ID.
func (c *Client) ReplyToComment(ctx context.Context, owner, repo string, commentID int64, body string) (*ReviewComment, error) {
	_, number, err := c.GetReviewComment(ctx, owner, repo, commentID)
	if err != nil {
		return nil, err
	}

	op := fmt.Sprintf("reply to comment %s/%s %d", owner, repo, commentID)
	cm, resp, err := c.rest.PullRequests.CreateCommentInReplyTo(ctx, owner, repo, number, body, commentID)
	if err != nil {
		return nil, classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	mapped := mapReviewComment(cm)
	return &mapped, nil
}

// CreateIssueComment adds a PR-level comment via the Issues API.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (int64, error) {
	op := fmt.Sprintf("comment on %s/%s#%d", owner, repo, number)
	cm, resp, err := c.rest.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{Body: gh.Ptr(body)})
	if err != nil {
		return 0, classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return cm.GetID(), nil
}

// ListReviews returns all reviews on a PR.
func (c *Client) ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error) {
	op := fmt.Sprintf("list reviews %s/%s#%d", owner, repo, number)
	opts := &gh.ListOptions{PerPage: 100}
	var all []Review
	for {
		reviews, resp, err := c.rest.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classify(op, resp, err, false)
		}
		logRateLimit(resp, op)
		for _, r := range reviews {
			all = append(all, mapReview(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// RequestReviewers asks the given users for review.
func (c *Client) RequestReviewers(ctx context.Context, owner, repo string, number int, logins []string) error {
	op := fmt.Sprintf("request reviewers %s/%s#%d", owner, repo, number)
	_, resp, err := c.rest.PullRequests.RequestReviewers(ctx, owner, repo, number, gh.ReviewersRequest{Reviewers: logins})
	if err != nil {
		return classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return nil
}

// RemoveReviewers withdraws review requests for the given users.
func (c *Client) RemoveReviewers(ctx context.Context, owner, repo string, number int, logins []string) error {
	op := fmt.Sprintf("remove reviewers %s/%s#%d", owner, repo, number)
	resp, err := c.rest.PullRequests.RemoveReviewers(ctx, owner, repo, number, gh.ReviewersRequest{Reviewers: logins})
	if err != nil {
		return classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return nil
}

// AddLabels attaches labels to an issue or PR.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	op := fmt.Sprintf("add labels %s/%s#%d", owner, repo, number)
	_, resp, err := c.rest.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if err != nil {
		return classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return nil
}

// AddAssignees assigns users to an issue or PR.
func (c *Client) AddAssignees(ctx context.Context, owner, repo string, number int, assignees []string) error {
	op := fmt.Sprintf("add assignees %s/%s#%d", owner, repo, number)
	_, resp, err := c.rest.Issues.AddAssignees(ctx, owner, repo, number, assignees)
	if err != nil {
		return classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return nil
}

// ListCheckRuns returns the check runs for a commit ref.
func (c *Client) ListCheckRuns(ctx context.Context, owner, repo, ref string) ([]CheckRun, error) {
	op := fmt.Sprintf("list check runs %s/%s@%s", owner, repo, ref)
	opts := &gh.ListCheckRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []CheckRun
	for {
		result, resp, err := c.rest.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, classify(op, resp, err, false)
		}
		logRateLimit(resp, op)
		for _, cr := range result.CheckRuns {
			all = append(all, mapCheckRun(cr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// MergePullRequest merges a PR using the given method (merge, squash,
// rebase). Unmet preconditions (failing checks, conflicts, blocked merge)
// come back as PreconditionError.
func (c *Client) MergePullRequest(ctx context.Context, owner, repo string, number int, method, message string) error {
	op := fmt.Sprintf("merge %s/%s#%d", owner, repo, number)
	result, resp, err := c.rest.PullRequests.Merge(ctx, owner, repo, number, message, &gh.PullRequestOptions{
		MergeMethod: method,
	})
	if err != nil {
		return classify(op, resp, err, true)
	}
	logRateLimit(resp, op)
	if !result.GetMerged() {
		return apiErr(PreconditionError, op, fmt.Errorf("not merged: %s", result.GetMessage()))
	}
	return nil
}

// DeleteBranch deletes a branch ref, typically after a merge.
func (c *Client) DeleteBranch(ctx context.Context, owner, repo, branch string) error {
	op := fmt.Sprintf("delete branch %s/%s %s", owner, repo, branch)
	resp, err := c.rest.Git.DeleteRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		return classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return nil
}

// SubmitReview posts a batched review in a single call: summary body,
// verdict event, and the ordered inline comments, pinned to the draft's
// commit SHA. The head-SHA conflict check happens in the draft builder
// before this is called; this accessor itself is not safely retriable
// after a transport failure since the review may already be recorded.
func (c *Client) SubmitReview(ctx context.Context, owner, repo string, number int, draft *DraftReview) (int64, error) {
	op := fmt.Sprintf("submit review %s/%s#%d", owner, repo, number)

	comments := make([]*gh.DraftReviewComment, 0, len(draft.Comments))
	for _, dc := range draft.Comments {
		comments = append(comments, &gh.DraftReviewComment{
			Path: gh.Ptr(dc.Path),
			Line: gh.Ptr(dc.Line),
			Side: gh.Ptr(string(dc.Side)),
			Body: gh.Ptr(dc.Body),
		})
	}

	req := &gh.PullRequestReviewRequest{
		CommitID: gh.Ptr(draft.CommitID),
		Body:     gh.Ptr(draft.Body),
		Event:    gh.Ptr(string(draft.Event)),
		Comments: comments,
	}

	review, resp, err := c.rest.PullRequests.CreateReview(ctx, owner, repo, number, req)
	if err != nil {
		return 0, classify(op, resp, err, false)
	}
	logRateLimit(resp, op)
	return review.GetID(), nil
}
