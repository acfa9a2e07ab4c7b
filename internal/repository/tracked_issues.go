package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TrackedIssue is a bookmarked GitHub issue a user is following.
type TrackedIssue struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Owner       string    `json:"owner"`
	Repo        string    `json:"repo"`
	IssueNumber int       `json:"issueNumber"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

const createTrackedIssue = `
INSERT INTO tracked_issues (user_id, owner, repo, issue_number, title, url)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, owner, repo, issue_number) DO UPDATE SET title = EXCLUDED.title, url = EXCLUDED.url
RETURNING id, created_at
`

func (q *Queries) CreateTrackedIssue(ctx context.Context, t *TrackedIssue) error {
	return q.db.QueryRowContext(ctx, createTrackedIssue,
		t.UserID, t.Owner, t.Repo, t.IssueNumber, t.Title, t.URL,
	).Scan(&t.ID, &t.CreatedAt)
}

const listTrackedIssues = `
SELECT id, user_id, owner, repo, issue_number, title, url, created_at
FROM tracked_issues
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListTrackedIssues(ctx context.Context, userID uuid.UUID) ([]TrackedIssue, error) {
	rows, err := q.db.QueryContext(ctx, listTrackedIssues, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []TrackedIssue
	for rows.Next() {
		var t TrackedIssue
		if err := rows.Scan(&t.ID, &t.UserID, &t.Owner, &t.Repo, &t.IssueNumber, &t.Title, &t.URL, &t.CreatedAt); err != nil {
			return nil, err
		}
		issues = append(issues, t)
	}
	return issues, rows.Err()
}

const deleteTrackedIssue = `
DELETE FROM tracked_issues WHERE id = $1 AND user_id = $2
`

func (q *Queries) DeleteTrackedIssue(ctx context.Context, id, userID uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, deleteTrackedIssue, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}
