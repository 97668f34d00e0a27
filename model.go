package main

import (
	"time"

	gh "github.com/google/go-github/v82/github"
)

// DiffSide indicates which side of the diff a comment is on.
type DiffSide string

const (
	DiffSideLeft  DiffSide = "LEFT"
	DiffSideRight DiffSide = "RIGHT"
)

// ReviewEvent is the overall verdict of a submitted review.
type ReviewEvent string

const (
	ReviewEventComment        ReviewEvent = "COMMENT"
	ReviewEventApprove        ReviewEvent = "APPROVE"
	ReviewEventRequestChanges ReviewEvent = "REQUEST_CHANGES"
)

// Issue is a tracked unit of work, read-only from this tool's perspective.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	Author    string    `json:"author"`
	Labels    []string  `json:"labels"`
	Assignees []string  `json:"assignees"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PullRequest is the subset of PR state this tool acts on. HeadSHA moves
// whenever new commits are pushed; callers must re-fetch before acting on
// diff line numbers.
type PullRequest struct {
	Number             int       `json:"number"`
	Title              string    `json:"title"`
	Body               string    `json:"body"`
	State              string    `json:"state"`
	IsDraft            bool      `json:"isDraft"`
	Merged             bool      `json:"merged"`
	Author             string    `json:"author"`
	BaseRef            string    `json:"baseRef"`
	HeadRef            string    `json:"headRef"`
	HeadSHA            string    `json:"headSha"`
	NodeID             string    `json:"nodeId"`
	Mergeable          *bool     `json:"mergeable"`
	Additions          int       `json:"additions"`
	Deletions          int       `json:"deletions"`
	ChangedFiles       int       `json:"changedFiles"`
	RequestedReviewers []string  `json:"requestedReviewers"`
	URL                string    `json:"url"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ChangedFile is one entry of a PR's changed-file list, in server order.
type ChangedFile struct {
	Path         string `json:"path"`
	Status       string `json:"status"` // added, modified, removed, renamed
	PreviousPath string `json:"previousPath,omitempty"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	Patch        string `json:"patch,omitempty"`
}

// ReviewComment is an inline code comment. Comments form threads; a reply
// carries the database ID of the thread root in InReplyTo. Resolved is
// filled from GraphQL review-thread data, the REST API does not expose it.
type ReviewComment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"reviewId,omitempty"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Path      string    `json:"path"`
	Line      int       `json:"line"`
	Side      DiffSide  `json:"side"`
	InReplyTo int64     `json:"inReplyTo,omitempty"`
	Resolved  bool      `json:"resolved"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Review is a formal review submission.
type Review struct {
	ID          int64      `json:"id"`
	Author      string     `json:"author"`
	State       string     `json:"state"` // APPROVED, CHANGES_REQUESTED, COMMENTED, PENDING, DISMISSED
	Body        string     `json:"body"`
	CommitSHA   string     `json:"commitSha"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// CheckRun is one CI check attached to a commit.
type CheckRun struct {
	Name       string `json:"name"`
	Status     string `json:"status"`     // queued, in_progress, completed
	Conclusion string `json:"conclusion"` // success, failure, cancelled, skipped, ...
	URL        string `json:"url,omitempty"`
}

// NewPullRequest holds the parameters for creating a PR.
type NewPullRequest struct {
	Title string
	Body  string
	Base  string
	Head  string
	Draft bool
}

// mapIssue converts a go-github Issue to our model. GetXxx accessors are
// used throughout so sparse responses cannot panic on nil fields.
func mapIssue(is *gh.Issue) *Issue {
	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.GetName())
	}
	assignees := make([]string, 0, len(is.Assignees))
	for _, a := range is.Assignees {
		assignees = append(assignees, a.GetLogin())
	}
	return &Issue{
		Number:    is.GetNumber(),
		Title:     is.GetTitle(),
		Body:      is.GetBody(),
		State:     is.GetState(),
		Author:    is.GetUser().GetLogin(),
		Labels:    labels,
		Assignees: assignees,
		URL:       is.GetHTMLURL(),
		CreatedAt: is.GetCreatedAt().Time,
		UpdatedAt: is.GetUpdatedAt().Time,
	}
}

func mapPullRequest(pr *gh.PullRequest) *PullRequest {
	reviewers := make([]string, 0, len(pr.RequestedReviewers))
	for _, r := range pr.RequestedReviewers {
		reviewers = append(reviewers, r.GetLogin())
	}
	return &PullRequest{
		Number:             pr.GetNumber(),
		Title:              pr.GetTitle(),
		Body:               pr.GetBody(),
		State:              pr.GetState(),
		IsDraft:            pr.GetDraft(),
		Merged:             pr.GetMerged(),
		Author:             pr.GetUser().GetLogin(),
		BaseRef:            pr.GetBase().GetRef(),
		HeadRef:            pr.GetHead().GetRef(),
		HeadSHA:            pr.GetHead().GetSHA(),
		NodeID:             pr.GetNodeID(),
		Mergeable:          pr.Mergeable,
		Additions:          pr.GetAdditions(),
		Deletions:          pr.GetDeletions(),
		ChangedFiles:       pr.GetChangedFiles(),
		RequestedReviewers: reviewers,
		URL:                pr.GetHTMLURL(),
		CreatedAt:          pr.GetCreatedAt().Time,
		UpdatedAt:          pr.GetUpdatedAt().Time,
	}
}

func mapChangedFile(f *gh.CommitFile) ChangedFile {
	return ChangedFile{
		Path:         f.GetFilename(),
		Status:       f.GetStatus(),
		PreviousPath: f.GetPreviousFilename(),
		Additions:    f.GetAdditions(),
		Deletions:    f.GetDeletions(),
		Patch:        f.GetPatch(),
	}
}

func mapReviewComment(c *gh.PullRequestComment) ReviewComment {
	// Outdated comments have a zero Line; fall back to the original line so
	// rendered output still points somewhere useful.
	line := c.GetLine()
	if line == 0 {
		line = c.GetOriginalLine()
	}
	return ReviewComment{
		ID:        c.GetID(),
		ReviewID:  c.GetPullRequestReviewID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		Path:      c.GetPath(),
		Line:      line,
		Side:      DiffSide(c.GetSide()),
		InReplyTo: c.GetInReplyTo(),
		URL:       c.GetHTMLURL(),
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
	}
}

func mapReview(r *gh.PullRequestReview) Review {
	rv := Review{
		ID:        r.GetID(),
		Author:    r.GetUser().GetLogin(),
		State:     r.GetState(),
		Body:      r.GetBody(),
		CommitSHA: r.GetCommitID(),
	}
	if r.SubmittedAt != nil {
		t := r.GetSubmittedAt().Time
		rv.SubmittedAt = &t
	}
	return rv
}

func mapCheckRun(cr *gh.CheckRun) CheckRun {
	return CheckRun{
		Name:       cr.GetName(),
		Status:     cr.GetStatus(),
		Conclusion: cr.GetConclusion(),
		URL:        cr.GetDetailsURL(),
	}
}
