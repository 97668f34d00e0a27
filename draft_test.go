package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftAddComment(t *testing.T) {
	d := NewDraftReview("myorg", "myrepo", 42, "abc123")

	require.NoError(t, d.AddComment("src/a.go", 10, DiffSideRight, "Nit: rename"))
	require.NoError(t, d.AddComment("src/b.go", 3, DiffSideLeft, "This was load-bearing"))

	require.Len(t, d.Comments, 2)
	assert.Equal(t, "src/a.go", d.Comments[0].Path)
	assert.Equal(t, "src/b.go", d.Comments[1].Path)
}

func TestDraftAddCommentValidation(t *testing.T) {
	d := NewDraftReview("myorg", "myrepo", 42, "abc123")

	assert.Error(t, d.AddComment("", 10, DiffSideRight, "body"))
	assert.Error(t, d.AddComment("a.go", 0, DiffSideRight, "body"))
	assert.Error(t, d.AddComment("a.go", -5, DiffSideRight, "body"))
	assert.Error(t, d.AddComment("a.go", 10, "MIDDLE", "body"))
	assert.Error(t, d.AddComment("a.go", 10, DiffSideRight, ""))
	assert.Empty(t, d.Comments)
}

func TestDraftSetVerdict(t *testing.T) {
	d := NewDraftReview("myorg", "myrepo", 42, "abc123")

	// Bare approval with no comments needs no summary.
	require.NoError(t, d.SetVerdict(ReviewEventApprove, ""))
	assert.Equal(t, ReviewEventApprove, d.Event)

	// Any other verdict requires a summary.
	assert.Error(t, d.SetVerdict(ReviewEventRequestChanges, ""))
	assert.Error(t, d.SetVerdict(ReviewEventComment, ""))
	require.NoError(t, d.SetVerdict(ReviewEventRequestChanges, "Needs a rename"))
	assert.Equal(t, "Needs a rename", d.Body)

	// An approval with pending comments also requires a summary.
	require.NoError(t, d.AddComment("a.go", 1, DiffSideRight, "x"))
	assert.Error(t, d.SetVerdict(ReviewEventApprove, ""))

	// Unknown verdicts are rejected.
	assert.Error(t, d.SetVerdict("SHIP_IT", "sure"))
}

func TestDraftValidate(t *testing.T) {
	d := NewDraftReview("myorg", "myrepo", 42, "abc123")
	require.NoError(t, d.Validate())

	d.CommitID = ""
	assert.Error(t, d.Validate())

	d = NewDraftReview("myorg", "myrepo", 42, "abc123")
	d.Event = "BOGUS"
	assert.Error(t, d.Validate())

	// Hand-edited review files can carry broken comments.
	d = NewDraftReview("myorg", "myrepo", 42, "abc123")
	d.Comments = append(d.Comments, DraftComment{Path: "a.go", Line: 0, Side: DiffSideRight, Body: "x"})
	assert.Error(t, d.Validate())

	d.Comments[0] = DraftComment{Path: "a.go", Line: 1, Side: "UP", Body: "x"}
	assert.Error(t, d.Validate())

	d.Comments[0] = DraftComment{Path: "a.go", Line: 1, Side: DiffSideLeft, Body: "x"}
	assert.NoError(t, d.Validate())
}
