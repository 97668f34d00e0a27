package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseRepo splits an "owner/repo" argument into its components.
func parseRepo(repo string) (string, string, error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo %q: expected owner/repo", repo)
	}
	return parts[0], parts[1], nil
}

// parseNumber parses a positive integer argument (PR/issue/comment number).
func parseNumber(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", what, arg)
	}
	return n, nil
}

// splitList turns a comma-separated flag value into trimmed entries,
// dropping empties and a leading @ on login names.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), "@")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// pullNumberFromURL extracts the PR number from an API pull request URL
// like https://api.github.com/repos/owner/repo/pulls/42.
func pullNumberFromURL(url string) (int, error) {
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	for i, part := range parts {
		if part == "pulls" && i+1 < len(parts) {
			if n, err := strconv.Atoi(parts[i+1]); err == nil {
				return n, nil
			}
		}
	}
	return 0, fmt.Errorf("no pull request number in URL %q", url)
}

// truncate shortens s for table display.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
