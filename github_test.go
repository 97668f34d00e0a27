package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGitHubTest stands up an httptest server and a Client pointed at it.
func newGitHubTest(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewTestClient(server.Client(), server.URL)
	require.NoError(t, err)
	return client, server
}

func TestGetIssue(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/myorg/myrepo/issues/42" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprint(w, `{"number":42,"title":"Fix the frobnicator","state":"open","user":{"login":"octocat"},"labels":[{"name":"bug"}]}`)
	}))

	issue, err := client.GetIssue(context.Background(), "myorg", "myrepo", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "Fix the frobnicator", issue.Title)
	assert.Equal(t, "octocat", issue.Author)
	assert.Equal(t, []string{"bug"}, issue.Labels)

	_, err = client.GetIssue(context.Background(), "myorg", "myrepo", 9999)
	require.Error(t, err)
	assert.True(t, IsKind(err, NotFoundError), "want NotFoundError, got %v", err)
	assert.Contains(t, err.Error(), "myorg/myrepo#9999")
}

func TestGetPullRequestHeadSHA(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number":42,"title":"Add parser","state":"open","head":{"sha":"abc123","ref":"feature/parser"},"base":{"ref":"main"}}`)
	}))

	pr, err := client.GetPullRequest(context.Background(), "myorg", "myrepo", 42)
	require.NoError(t, err)
	assert.Equal(t, "abc123", pr.HeadSHA)
	assert.Equal(t, "feature/parser", pr.HeadRef)
	assert.Equal(t, "main", pr.BaseRef)
}

func TestListFilesPagination(t *testing.T) {
	var server *httptest.Server
	client, server := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/myorg/myrepo/pulls/42/files?page=2>; rel="next"`, server.URL))
			fmt.Fprint(w, `[{"filename":"src/z.go","status":"modified","additions":3,"deletions":1},{"filename":"src/a.go","status":"added","additions":10,"deletions":0}]`)
		case "2":
			fmt.Fprint(w, `[{"filename":"README.md","status":"modified","additions":1,"deletions":1}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	files, err := client.ListFiles(context.Background(), "myorg", "myrepo", 42)
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Server ordering is preserved across pages, never re-sorted.
	assert.Equal(t, "src/z.go", files[0].Path)
	assert.Equal(t, "src/a.go", files[1].Path)
	assert.Equal(t, "README.md", files[2].Path)
	assert.Equal(t, 10, files[1].Additions)
}

func TestGetReviewCommentResolvesPullNumber(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":555,"path":"src/a.go","line":10,"side":"RIGHT","body":"nit","user":{"login":"octocat"},"pull_request_url":"https://api.github.com/repos/myorg/myrepo/pulls/42"}`)
	}))

	comment, number, err := client.GetReviewComment(context.Background(), "myorg", "myrepo", 555)
	require.NoError(t, err)
	assert.Equal(t, 42, number)
	assert.Equal(t, int64(555), comment.ID)
	assert.Equal(t, "src/a.go", comment.Path)
}

func TestMergePreconditionFailure(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprint(w, `{"message":"Pull Request is not mergeable"}`)
	}))

	err := client.MergePullRequest(context.Background(), "myorg", "myrepo", 42, "squash", "")
	require.Error(t, err)
	assert.True(t, IsKind(err, PreconditionError), "want PreconditionError, got %v", err)
}

func TestMergeReportedUnmerged(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"merged":false,"message":"Base branch was modified"}`)
	}))

	err := client.MergePullRequest(context.Background(), "myorg", "myrepo", 42, "merge", "")
	require.Error(t, err)
	assert.True(t, IsKind(err, PreconditionError))
	assert.Contains(t, err.Error(), "Base branch was modified")
}

func TestSubmitReviewRequestBody(t *testing.T) {
	var got struct {
		CommitID string `json:"commit_id"`
		Body     string `json:"body"`
		Event    string `json:"event"`
		Comments []struct {
			Path string `json:"path"`
			Line int    `json:"line"`
			Side string `json:"side"`
			Body string `json:"body"`
		} `json:"comments"`
	}
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/repos/myorg/myrepo/pulls/42/reviews", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"id":999,"state":"CHANGES_REQUESTED"}`)
	}))

	d := NewDraftReview("myorg", "myrepo", 42, "abc123")
	require.NoError(t, d.AddComment("src/b.go", 20, DiffSideLeft, "second"))
	require.NoError(t, d.AddComment("src/a.go", 10, DiffSideRight, "first"))
	require.NoError(t, d.SetVerdict(ReviewEventRequestChanges, "Please fix"))

	id, err := client.SubmitReview(context.Background(), "myorg", "myrepo", 42, d)
	require.NoError(t, err)
	assert.Equal(t, int64(999), id)

	assert.Equal(t, "abc123", got.CommitID)
	assert.Equal(t, "Please fix", got.Body)
	assert.Equal(t, "REQUEST_CHANGES", got.Event)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "src/b.go", got.Comments[0].Path)
	assert.Equal(t, "LEFT", got.Comments[0].Side)
	assert.Equal(t, "src/a.go", got.Comments[1].Path)
	assert.Equal(t, 10, got.Comments[1].Line)
}

func TestSubmitFlowDeletesDraft(t *testing.T) {
	posts := 0
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET":
			fmt.Fprint(w, `{"number":42,"head":{"sha":"abc123"}}`)
		case r.Method == "POST":
			posts++
			fmt.Fprint(w, `{"id":999}`)
		}
	}))

	store := NewDraftStoreAt(t.TempDir())
	d := NewDraftReview("myorg", "myrepo", 42, "abc123")
	require.NoError(t, d.AddComment("src/a.go", 10, DiffSideRight, "nit"))
	require.NoError(t, d.SetVerdict(ReviewEventRequestChanges, "Needs work"))
	require.NoError(t, store.Save(d))

	id, err := d.Submit(context.Background(), client, store)
	require.NoError(t, err)
	assert.Equal(t, int64(999), id)
	assert.Equal(t, 1, posts)

	// The draft is gone, so a repeat post fails locally instead of
	// submitting the same review twice.
	_, err = store.Load("myorg", "myrepo", 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no draft review")
	assert.Equal(t, 1, posts)
}

func TestSubmitFlowHeadAdvanced(t *testing.T) {
	posts := 0
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET":
			fmt.Fprint(w, `{"number":42,"head":{"sha":"def456"}}`)
		case r.Method == "POST":
			posts++
			fmt.Fprint(w, `{"id":999}`)
		}
	}))

	store := NewDraftStoreAt(t.TempDir())
	d := NewDraftReview("myorg", "myrepo", 42, "abc123")
	require.NoError(t, d.SetVerdict(ReviewEventComment, "Looks okay overall"))
	require.NoError(t, store.Save(d))

	_, err := d.Submit(context.Background(), client, store)
	require.Error(t, err)
	assert.True(t, IsKind(err, ConflictError), "want ConflictError, got %v", err)
	assert.Contains(t, err.Error(), "abc123")
	assert.Contains(t, err.Error(), "def456")

	// Nothing was posted and the draft survives for a retry.
	assert.Equal(t, 0, posts)
	_, statErr := os.Stat(store.Path("myorg", "myrepo", 42))
	assert.NoError(t, statErr)
}
