package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	apperrors "github.com/gitfolio/portfolio-analyzer/internal/errors"
	"github.com/gitfolio/portfolio-analyzer/internal/resilience"
	"github.com/gitfolio/portfolio-analyzer/internal/types"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "Portfolio-Analyzer/1.0"

	// The API caps listing pages at 100 entries; one page of the
	// most recently updated repos and events is what gets analyzed.
	maxPageSize = 100
)

// GitHubClient fetches profile, repository, and event data from the
// GitHub REST API. An optional token raises the upstream quota; the
// client also self-limits so bursts of analyses don't trip it.
type GitHubClient struct {
	baseURL string
	token   string
	pool    *resilience.ClientPool
	limiter *rate.Limiter
}

// NewGitHubClient creates a client. token may be empty for anonymous
// access.
func NewGitHubClient(token string) *GitHubClient {
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 3,
	})

	return &GitHubClient{
		baseURL: defaultBaseURL,
		token:   token,
		pool:    resilience.NewClientPool(resilience.DefaultPoolConfig(), breaker),
		limiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}
}

// SetBaseURL points the client at a different API root. Used by tests.
func (c *GitHubClient) SetBaseURL(base string) {
	c.baseURL = base
}

// FetchProfile retrieves the user record.
func (c *GitHubClient) FetchProfile(ctx context.Context, username string) (types.Profile, error) {
	var profile types.Profile
	path := fmt.Sprintf("/users/%s", url.PathEscape(username))
	if err := c.getJSON(ctx, path, "user", &profile); err != nil {
		return types.Profile{}, err
	}
	return profile, nil
}

// FetchRepositories retrieves up to 100 repositories, most recently
// updated first.
func (c *GitHubClient) FetchRepositories(ctx context.Context, username string) ([]types.Repository, error) {
	var repos []types.Repository
	path := fmt.Sprintf("/users/%s/repos?per_page=%d&sort=updated", url.PathEscape(username), maxPageSize)
	if err := c.getJSON(ctx, path, "repositories", &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// FetchEvents retrieves up to 100 recent public events.
func (c *GitHubClient) FetchEvents(ctx context.Context, username string) ([]types.Event, error) {
	var events []types.Event
	path := fmt.Sprintf("/users/%s/events?per_page=%d", url.PathEscape(username), maxPageSize)
	if err := c.getJSON(ctx, path, "events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchAll runs the three fetches concurrently. The fetches are
// independent reads, so any failure cancels the others and aborts the
// whole acquisition, so scoring never sees partial data.
func (c *GitHubClient) FetchAll(ctx context.Context, username string) (types.Profile, []types.Repository, []types.Event, error) {
	var (
		profile types.Profile
		repos   []types.Repository
		events  []types.Event
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		profile, err = c.FetchProfile(ctx, username)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		repos, err = c.FetchRepositories(ctx, username)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		events, err = c.FetchEvents(ctx, username)
		return err
	})

	if err := p.Wait(); err != nil {
		return types.Profile{}, nil, nil, err
	}
	return profile, repos, events, nil
}

// getJSON performs a rate-limited GET and decodes the body, mapping
// HTTP statuses onto the analyzer's error kinds.
func (c *GitHubClient) getJSON(ctx context.Context, path, resource string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.ToAppError(err)
	}

	header := http.Header{}
	header.Set("Accept", "application/vnd.github.v3+json")
	header.Set("User-Agent", userAgent)
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.pool.Do(ctx, http.MethodGet, c.baseURL+path, header)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("failed to fetch %s from GitHub", resource), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("GitHub " + resource)
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewRateLimitError("GitHub API rate limit exceeded, try again later")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperrors.NewNetworkError(
			fmt.Sprintf("GitHub API returned status %d for %s", resp.StatusCode, resource), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("failed to decode %s response", resource), err)
	}
	return nil
}

// Stats reports client pool statistics.
func (c *GitHubClient) Stats() map[string]interface{} {
	stats := c.pool.Stats()
	stats["self_rate_limit_rps"] = float64(c.limiter.Limit())
	return stats
}

// Close releases the underlying connections.
func (c *GitHubClient) Close() {
	c.pool.Close()
}
