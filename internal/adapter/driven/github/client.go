// Package github implements the IssueSource port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueSource = (*Client)(nil)

const (
	userAgent      = "neurodeskedu-reviews-registry-generator"
	searchPageSize = 100
	searchAttempts = 3
)

// Client implements the driven.IssueSource port using the GitHub search API.
type Client struct {
	gh         *gh.Client
	retryDelay time.Duration
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is non-empty)
//
// timeout bounds every HTTP request made by the client.
func NewClient(token string, timeout time.Duration) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = timeout

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	client.UserAgent = userAgent

	return &Client{
		gh:         client,
		retryDelay: time.Second,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	client.UserAgent = userAgent

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:         client,
		retryDelay: 10 * time.Millisecond,
	}, nil
}

// SearchQuery returns the issue search query for a reviews repository.
func SearchQuery(repoFullName string) string {
	return fmt.Sprintf("repo:%s is:issue in:body review_id:", repoFullName)
}

// FetchReviewIssues searches repoFullName for issues whose body mentions
// review_id: and returns them in API order. It follows pagination and retries
// each page on transient failures.
func (c *Client) FetchReviewIssues(ctx context.Context, repoFullName string) ([]model.Issue, error) {
	query := SearchQuery(repoFullName)
	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: searchPageSize},
	}

	allIssues := []model.Issue{}

	for {
		result, resp, err := c.searchPage(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("searching issues in %s (page %d): %w", repoFullName, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/search", opts.Page, len(result.Issues))

		if result.GetIncompleteResults() {
			slog.Warn("github search returned incomplete results", "repo", repoFullName, "page", opts.Page)
		}

		for _, issue := range result.Issues {
			allIssues = append(allIssues, mapIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allIssues, nil
}

// searchPage fetches a single search page, retrying server errors and
// transport failures with exponential backoff.
func (c *Client) searchPage(ctx context.Context, query string, opts *gh.SearchOptions) (*gh.IssuesSearchResult, *gh.Response, error) {
	var (
		result *gh.IssuesSearchResult
		resp   *gh.Response
	)

	err := retry.Do(
		func() error {
			var err error
			result, resp, err = c.gh.Search.Issues(ctx, query, opts)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(searchAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(c.retryDelay),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("github search failed, retrying",
				"attempt", n+1,
				"max_attempts", searchAttempts,
				"error", err,
			)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, nil, err
	}

	return result, resp, nil
}

// isRetryable reports whether a search error is worth retrying. Client errors
// (4xx) other than rate limiting are permanent.
func isRetryable(err error) bool {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}

	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		code := errResp.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}

	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// mapIssue converts a go-github Issue to a domain model Issue.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapIssue(issue *gh.Issue) model.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	assignees := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		if login := a.GetLogin(); login != "" {
			assignees = append(assignees, login)
		}
	}

	return model.Issue{
		Body:      issue.GetBody(),
		Labels:    labels,
		Assignees: assignees,
		HTMLURL:   issue.GetHTMLURL(),
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 5 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
