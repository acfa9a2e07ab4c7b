// Package github is a read-only client for the GitHub REST API.
//
// The pipeline consumes issue and repository payloads with a single call per
// lookup: no pagination loops, no rate-limit retries. A failed call surfaces
// immediately to the caller.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/0xarg/openscope/internal/domain"
)

const (
	// DefaultBaseURL is the public GitHub API.
	DefaultBaseURL = "https://api.github.com"

	// AcceptHeader pins the stable REST media type.
	AcceptHeader = "application/vnd.github+json"

	// APIVersion is the GitHub REST API version header value.
	APIVersion = "2022-11-28"
)

// Error codes for GitHub operations
var (
	// ENotFound indicates the issue or repository does not exist (or is private)
	ENotFound = errors.New("github resource not found")

	// ERateLimited indicates GitHub's rate limit was hit
	ERateLimited = errors.New("github rate limit exceeded")

	// EUnavailable indicates GitHub could not be reached
	EUnavailable = errors.New("github temporarily unavailable")
)

// Config contains configuration for the GitHub client.
type Config struct {
	BaseURL string
	Token   string        // Optional; raises the rate limit when set
	Timeout time.Duration // HTTP client timeout
}

// Client calls the GitHub REST API.
type Client struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new GitHub client.
func New(config Config, logger *slog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Issue is a GitHub issue payload, reduced to the fields OpenScope uses.
type Issue struct {
	Number   int     `json:"number"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	State    string  `json:"state"`
	Comments int     `json:"comments"`
	HTMLURL  string  `json:"html_url"`
	Labels   []Label `json:"labels"`
}

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// LabelNames flattens labels for prompt building.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// Subject maps the payload to the domain type fed to the prompt builder.
func (i *Issue) Subject() *domain.IssueSubject {
	return &domain.IssueSubject{
		Title:    i.Title,
		Body:     i.Body,
		Labels:   i.LabelNames(),
		Comments: i.Comments,
	}
}

// Repository is a GitHub repository payload, reduced to the fields OpenScope uses.
type Repository struct {
	FullName    string   `json:"full_name"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Watchers    int      `json:"subscribers_count"`
	OpenIssues  int      `json:"open_issues_count"`
	Language    string   `json:"language"`
	HTMLURL     string   `json:"html_url"`
}

// Subject maps the payload to the domain type fed to the prompt builder.
func (r *Repository) Subject() *domain.RepoSubject {
	return &domain.RepoSubject{
		Name:        r.FullName,
		Description: r.Description,
		Topics:      r.Topics,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Watchers:    r.Watchers,
		OpenIssues:  r.OpenIssues,
	}
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var out Repository
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	var out Issue
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", url.PathEscape(owner), url.PathEscape(repo), number)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchIssues runs one page of an issue search. The default query surfaces
// open issues labeled for new contributors.
func (c *Client) SearchIssues(ctx context.Context, query string, perPage int) ([]Issue, error) {
	if query == "" {
		query = `label:"good first issue" state:open`
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 30
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", fmt.Sprintf("%d", perPage))
	params.Set("sort", "updated")

	var out struct {
		Items []Issue `json:"items"`
	}
	if err := c.get(ctx, "/search/issues?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// get performs a single GET round trip and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", AcceptHeader)
	req.Header.Set("X-GitHub-Api-Version", APIVersion)
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return EUnavailable
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.mapHTTPError(resp.StatusCode, path)
	}

	if err := json.Unmarshal(bodyBytes, v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// mapHTTPError maps GitHub status codes to client errors.
func (c *Client) mapHTTPError(statusCode int, path string) error {
	switch statusCode {
	case http.StatusNotFound, http.StatusGone:
		return ENotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		// GitHub reports primary rate limiting as 403
		return ERateLimited
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return EUnavailable
	default:
		if c.logger != nil {
			c.logger.Warn("unexpected github status", "status", statusCode, "path", path)
		}
		return fmt.Errorf("github API error (status %d)", statusCode)
	}
}
