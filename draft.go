package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// DraftComment is one pending inline comment in a draft review.
type DraftComment struct {
	Path string   `json:"path"`
	Line int      `json:"line"`
	Side DiffSide `json:"side"`
	Body string   `json:"body"`
}

// DraftReview accumulates review comments locally across invocations so
// the whole review goes out as one submission instead of per-comment
// notification spam. It is keyed to the PR head commit observed at
// init-review time; if the head moves before submission the draft is
// stale and line numbers may no longer match visible diff lines.
type DraftReview struct {
	Owner    string         `json:"owner"`
	Repo     string         `json:"repo"`
	Number   int            `json:"pr_number"`
	CommitID string         `json:"commit_id"`
	Body     string         `json:"body"`
	Event    ReviewEvent    `json:"event"`
	Comments []DraftComment `json:"comments"`
}

// NewDraftReview creates an empty draft keyed to the given head commit.
func NewDraftReview(owner, repo string, number int, commitID string) *DraftReview {
	return &DraftReview{
		Owner:    owner,
		Repo:     repo,
		Number:   number,
		CommitID: commitID,
		Event:    ReviewEventComment,
		Comments: []DraftComment{},
	}
}

// AddComment appends a pending comment, preserving insertion order. No
// network call is made; validation is purely local.
func (d *DraftReview) AddComment(path string, line int, side DiffSide, body string) error {
	if path == "" {
		return fmt.Errorf("comment path must not be empty")
	}
	if line <= 0 {
		return fmt.Errorf("comment line must be a positive integer, got %d", line)
	}
	if side != DiffSideLeft && side != DiffSideRight {
		return fmt.Errorf("comment side must be LEFT or RIGHT, got %q", side)
	}
	if body == "" {
		return fmt.Errorf("comment body must not be empty")
	}
	d.Comments = append(d.Comments, DraftComment{Path: path, Line: line, Side: side, Body: body})
	return nil
}

// SetVerdict sets the overall decision. A summary body is required for
// anything other than a bare approval with no inline comments.
func (d *DraftReview) SetVerdict(event ReviewEvent, summary string) error {
	switch event {
	case ReviewEventComment, ReviewEventApprove, ReviewEventRequestChanges:
	default:
		return fmt.Errorf("verdict must be one of COMMENT, APPROVE, REQUEST_CHANGES, got %q", event)
	}
	if summary == "" && !(event == ReviewEventApprove && len(d.Comments) == 0) {
		return fmt.Errorf("a summary body is required unless approving with no comments")
	}
	d.Event = event
	d.Body = summary
	return nil
}

// Validate checks the invariants a draft must satisfy before submission.
// Used both for store-managed drafts and for explicitly supplied review
// files.
func (d *DraftReview) Validate() error {
	if d.CommitID == "" {
		return fmt.Errorf("draft is missing commit_id")
	}
	switch d.Event {
	case ReviewEventComment, ReviewEventApprove, ReviewEventRequestChanges:
	default:
		return fmt.Errorf("draft event must be one of COMMENT, APPROVE, REQUEST_CHANGES, got %q", d.Event)
	}
	for i, c := range d.Comments {
		if c.Path == "" || c.Line <= 0 {
			return fmt.Errorf("comment %d has invalid location %q:%d", i, c.Path, c.Line)
		}
		if c.Side != DiffSideLeft && c.Side != DiffSideRight {
			return fmt.Errorf("comment %d has invalid side %q", i, c.Side)
		}
	}
	return nil
}

// Submit sends the draft as one review. The draft's commit must still be
// the PR's head: on mismatch it returns ConflictError and leaves the
// stored draft untouched so line numbers can be re-resolved and the
// submission retried. On success the stored draft is deleted; a repeat
// submit therefore fails with a missing draft rather than posting twice.
func (d *DraftReview) Submit(ctx context.Context, client *Client, store DraftStore) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	pr, err := client.GetPullRequest(ctx, d.Owner, d.Repo, d.Number)
	if err != nil {
		return 0, err
	}
	if pr.HeadSHA != d.CommitID {
		return 0, apiErr(ConflictError,
			fmt.Sprintf("submit review %s/%s#%d", d.Owner, d.Repo, d.Number),
			fmt.Errorf("PR head advanced from %s to %s; re-resolve line numbers before retrying", short(d.CommitID), short(pr.HeadSHA)))
	}

	reviewID, err := client.SubmitReview(ctx, d.Owner, d.Repo, d.Number, d)
	if err != nil {
		return 0, err
	}

	if store != nil {
		if err := store.Delete(d.Owner, d.Repo, d.Number); err != nil {
			return reviewID, fmt.Errorf("review %d posted but draft cleanup failed: %w", reviewID, err)
		}
	}
	return reviewID, nil
}

// LoadDraftFile reads a review file supplied explicitly on the command
// line (the 'post <review-file>' form).
func LoadDraftFile(path string) (*DraftReview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading review file: %w", err)
	}
	var draft DraftReview
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("parsing review file %s: %w", path, err)
	}
	return &draft, nil
}

// short truncates a commit SHA for display.
func short(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
