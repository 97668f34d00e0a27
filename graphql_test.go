package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// threadsPage builds a reviewThreads response payload.
func threadsPage(nodes string, hasNext bool, cursor string) string {
	return fmt.Sprintf(`{"data":{"repository":{"pullRequest":{"reviewThreads":{
		"nodes":[%s],
		"pageInfo":{"hasNextPage":%t,"endCursor":"%s"}
	}}}}}`, nodes, hasNext, cursor)
}

func TestFindReviewThread(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/graphql", r.URL.Path)
		fmt.Fprint(w, threadsPage(`
			{"id":"THREAD_1","isResolved":true,"comments":{"nodes":[{"databaseId":100}]}},
			{"id":"THREAD_2","isResolved":false,"comments":{"nodes":[{"databaseId":555},{"databaseId":556}]}}`,
			false, ""))
	}))

	// A reply's database ID locates the same thread as the root's.
	threadID, resolved, err := client.FindReviewThread(context.Background(), "myorg", "myrepo", 42, 556)
	require.NoError(t, err)
	assert.Equal(t, "THREAD_2", threadID)
	assert.False(t, resolved)

	threadID, resolved, err = client.FindReviewThread(context.Background(), "myorg", "myrepo", 42, 100)
	require.NoError(t, err)
	assert.Equal(t, "THREAD_1", threadID)
	assert.True(t, resolved)

	_, _, err = client.FindReviewThread(context.Background(), "myorg", "myrepo", 42, 9999)
	require.Error(t, err)
	assert.True(t, IsKind(err, NotFoundError), "want NotFoundError, got %v", err)
}

func TestFindReviewThreadMissingPR(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"Could not resolve to a PullRequest with the number of 9999.","type":"NOT_FOUND"}]}`)
	}))

	_, _, err := client.FindReviewThread(context.Background(), "myorg", "myrepo", 9999, 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, NotFoundError), "want NotFoundError, got %v", err)

	_, err = client.ThreadResolution(context.Background(), "myorg", "myrepo", 9999)
	require.Error(t, err)
	assert.True(t, IsKind(err, NotFoundError), "want NotFoundError, got %v", err)
}

func TestThreadResolutionPagination(t *testing.T) {
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Variables["after"] == nil {
			fmt.Fprint(w, threadsPage(
				`{"id":"T1","isResolved":true,"comments":{"nodes":[{"databaseId":100},{"databaseId":101}]}}`,
				true, "CUR1"))
			return
		}
		require.Equal(t, "CUR1", req.Variables["after"])
		fmt.Fprint(w, threadsPage(
			`{"id":"T2","isResolved":false,"comments":{"nodes":[{"databaseId":200}]}}`,
			false, ""))
	}))

	resolution, err := client.ThreadResolution(context.Background(), "myorg", "myrepo", 42)
	require.NoError(t, err)

	// Only thread roots are keyed; replies inherit the root's state when
	// the map is overlaid onto a comment listing.
	assert.Equal(t, map[int64]bool{100: true, 200: false}, resolution)
}

func TestSetThreadResolved(t *testing.T) {
	var lastMutation string
	client, _ := newGitHubTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch {
		case strings.Contains(req.Query, "unresolveReviewThread"):
			lastMutation = "unresolve"
			fmt.Fprint(w, `{"data":{"unresolveReviewThread":{"thread":{"isResolved":false}}}}`)
		case strings.Contains(req.Query, "resolveReviewThread"):
			lastMutation = "resolve"
			fmt.Fprint(w, `{"data":{"resolveReviewThread":{"thread":{"isResolved":true}}}}`)
		}
	}))

	resolved, err := client.SetThreadResolved(context.Background(), "THREAD_2", true)
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.Equal(t, "resolve", lastMutation)

	resolved, err = client.SetThreadResolved(context.Background(), "THREAD_2", false)
	require.NoError(t, err)
	assert.False(t, resolved)
	assert.Equal(t, "unresolve", lastMutation)
}
