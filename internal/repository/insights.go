package repository

import (
	"context"
	"encoding/json"

	"github.com/0xarg/openscope/internal/domain"
	"github.com/google/uuid"
)

const createInsight = `
INSERT INTO insights (user_id, subject_kind, depth, subject_ref, model, payload)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at
`

func (q *Queries) CreateInsight(ctx context.Context, in *domain.Insight) error {
	return q.db.QueryRowContext(ctx, createInsight,
		in.UserID, string(in.Kind), string(in.Depth), in.SubjectRef, in.Model, []byte(in.Payload),
	).Scan(&in.ID, &in.CreatedAt)
}

const listInsightsByUser = `
SELECT id, user_id, subject_kind, depth, subject_ref, model, payload, created_at
FROM insights
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`

func (q *Queries) ListInsightsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Insight, error) {
	rows, err := q.db.QueryContext(ctx, listInsightsByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		var in domain.Insight
		var kind, depth string
		var payload []byte
		if err := rows.Scan(&in.ID, &in.UserID, &kind, &depth, &in.SubjectRef, &in.Model, &payload, &in.CreatedAt); err != nil {
			return nil, err
		}
		in.Kind = domain.SubjectKind(kind)
		in.Depth = domain.InsightDepth(depth)
		in.Payload = json.RawMessage(payload)
		insights = append(insights, in)
	}
	return insights, rows.Err()
}
