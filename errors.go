package main

import (
	"errors"
	"fmt"

	gh "github.com/google/go-github/v82/github"
)

// ErrorKind classifies API failures so the dispatcher can name them on
// stderr. No kind is ever retried automatically; this is an interactive
// tool and the operator decides what to do after inspecting the failure.
type ErrorKind string

const (
	AuthError         ErrorKind = "AuthError"
	NotFoundError     ErrorKind = "NotFoundError"
	RateLimitError    ErrorKind = "RateLimitError"
	ConflictError     ErrorKind = "ConflictError"
	PreconditionError ErrorKind = "PreconditionError"
	TransportError    ErrorKind = "TransportError"
	ServerError       ErrorKind = "ServerError"
)

// APIError wraps a failure from the remote API with its kind and the
// operation that produced it.
type APIError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// apiErr builds an APIError with an explicit kind.
func apiErr(kind ErrorKind, op string, err error) *APIError {
	return &APIError{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == kind
}

// classify maps a go-github error and response to an APIError. Merge
// calls pass mergeOp=true so that the 405/409/422 responses GitHub uses
// for unmet merge preconditions come back as PreconditionError rather
// than the generic mapping.
func classify(op string, resp *gh.Response, err error, mergeOp bool) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return apiErr(RateLimitError, op, err)
	}

	if resp == nil {
		return apiErr(TransportError, op, err)
	}

	code := resp.StatusCode
	switch {
	case code == 401:
		return apiErr(AuthError, op, err)
	case code == 403:
		// Secondary rate limiting also answers 403 with zero remaining quota.
		if resp.Rate.Remaining == 0 {
			return apiErr(RateLimitError, op, err)
		}
		return apiErr(AuthError, op, err)
	case code == 404:
		return apiErr(NotFoundError, op, err)
	case code == 429:
		return apiErr(RateLimitError, op, err)
	case mergeOp && (code == 405 || code == 409 || code == 422):
		return apiErr(PreconditionError, op, err)
	case code == 409:
		return apiErr(ConflictError, op, err)
	case code >= 500:
		return apiErr(ServerError, op, err)
	}
	return apiErr(TransportError, op, err)
}
