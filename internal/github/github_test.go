package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetRepository(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widget", r.URL.Path)
		assert.Equal(t, AcceptHeader, r.Header.Get("Accept"))
		assert.Equal(t, APIVersion, r.Header.Get("X-GitHub-Api-Version"))
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"full_name":         "acme/widget",
			"name":              "widget",
			"description":       "A widget toolkit",
			"topics":            []string{"go"},
			"stargazers_count":  1200,
			"forks_count":       85,
			"subscribers_count": 40,
			"open_issues_count": 17,
		})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Token: "ghp_test"}, testLogger())

	repo, err := c.GetRepository(context.Background(), "acme", "widget")
	require.NoError(t, err)
	assert.Equal(t, "acme/widget", repo.FullName)
	assert.Equal(t, 1200, repo.Stars)

	subject := repo.Subject()
	assert.Equal(t, "acme/widget", subject.Name)
	assert.Equal(t, 17, subject.OpenIssues)
}

func TestGetIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widget/issues/42", r.URL.Path)
		// Unauthenticated calls carry no Authorization header.
		assert.Empty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"number":   42,
			"title":    "Fix crash",
			"body":     "panics on empty input",
			"state":    "open",
			"comments": 3,
			"labels":   []map[string]string{{"name": "bug"}, {"name": "good first issue"}},
		})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, testLogger())

	issue, err := c.GetIssue(context.Background(), "acme", "widget", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, []string{"bug", "good first issue"}, issue.LabelNames())

	subject := issue.Subject()
	assert.Equal(t, "Fix crash", subject.Title)
	assert.Equal(t, 3, subject.Comments)
}

func TestSearchIssues_DefaultQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Equal(t, `label:"good first issue" state:open`, r.URL.Query().Get("q"))
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"number": 1, "title": "First"},
				{"number": 2, "title": "Second"},
			},
		})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, testLogger())

	issues, err := c.SearchIssues(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "First", issues[0].Title)
}

func TestSearchIssues_ClampsPerPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, testLogger())

	_, err := c.SearchIssues(context.Background(), "repo:acme/widget", 500)
	require.NoError(t, err)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, ENotFound},
		{"gone", http.StatusGone, ENotFound},
		{"rate limited as 403", http.StatusForbidden, ERateLimited},
		{"rate limited as 429", http.StatusTooManyRequests, ERateLimited},
		{"bad gateway", http.StatusBadGateway, EUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := New(Config{BaseURL: server.URL}, testLogger())

			_, err := c.GetRepository(context.Background(), "acme", "widget")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}
