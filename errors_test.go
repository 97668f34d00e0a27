package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	gh "github.com/google/go-github/v82/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ghResp(status, rateRemaining int) *gh.Response {
	return &gh.Response{
		Response: &http.Response{StatusCode: status},
		Rate:     gh.Rate{Limit: 5000, Remaining: rateRemaining},
	}
}

func TestClassify(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name    string
		resp    *gh.Response
		err     error
		mergeOp bool
		want    ErrorKind
	}{
		{"nil response is transport", nil, base, false, TransportError},
		{"401 is auth", ghResp(401, 4000), base, false, AuthError},
		{"403 with quota is auth", ghResp(403, 4000), base, false, AuthError},
		{"403 without quota is rate limit", ghResp(403, 0), base, false, RateLimitError},
		{"404 is not found", ghResp(404, 4000), base, false, NotFoundError},
		{"429 is rate limit", ghResp(429, 4000), base, false, RateLimitError},
		{"409 is conflict", ghResp(409, 4000), base, false, ConflictError},
		{"405 on merge is precondition", ghResp(405, 4000), base, true, PreconditionError},
		{"409 on merge is precondition", ghResp(409, 4000), base, true, PreconditionError},
		{"422 on merge is precondition", ghResp(422, 4000), base, true, PreconditionError},
		{"500 is server", ghResp(500, 4000), base, false, ServerError},
		{"503 is server", ghResp(503, 4000), base, false, ServerError},
		{"418 is transport", ghResp(418, 4000), base, false, TransportError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.resp, tt.err, tt.mergeOp)
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.want), "got %v, want kind %s", err, tt.want)
		})
	}
}

func TestClassifyNilError(t *testing.T) {
	assert.NoError(t, classify("op", ghResp(200, 4000), nil, false))
}

func TestClassifyRateLimitTypes(t *testing.T) {
	err := classify("op", ghResp(403, 4000), &gh.RateLimitError{Message: "slow down"}, false)
	assert.True(t, IsKind(err, RateLimitError))

	err = classify("op", nil, fmt.Errorf("wrapped: %w", &gh.AbuseRateLimitError{Message: "abuse"}), false)
	assert.True(t, IsKind(err, RateLimitError))
}

func TestAPIErrorMessageNamesKind(t *testing.T) {
	err := apiErr(ConflictError, "submit review myorg/myrepo#42", errors.New("head advanced"))
	assert.Contains(t, err.Error(), "ConflictError")
	assert.Contains(t, err.Error(), "head advanced")

	// Wrapping preserves kind detection.
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsKind(wrapped, ConflictError))
	assert.False(t, IsKind(wrapped, AuthError))
}
