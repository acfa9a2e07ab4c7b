package repository

import (
	"context"
	"time"

	"github.com/0xarg/openscope/internal/domain"
	"github.com/google/uuid"
)

const createUsageLedger = `
INSERT INTO usage_ledgers (user_id, last_daily_reset, last_monthly_reset)
VALUES ($1, $2, $2)
ON CONFLICT (user_id) DO NOTHING
`

// CreateUsageLedger inserts a zeroed ledger for a new user. Idempotent.
func (q *Queries) CreateUsageLedger(ctx context.Context, userID uuid.UUID, now time.Time) error {
	_, err := q.db.ExecContext(ctx, createUsageLedger, userID, now)
	return err
}

const getUsageLedger = `
SELECT user_id, requests_today, requests_month, tokens_today, tokens_month,
       last_daily_reset, last_monthly_reset, updated_at
FROM usage_ledgers
WHERE user_id = $1
`

func (q *Queries) GetUsageLedger(ctx context.Context, userID uuid.UUID) (*domain.UsageLedger, error) {
	var l domain.UsageLedger
	err := q.db.QueryRowContext(ctx, getUsageLedger, userID).Scan(
		&l.UserID, &l.RequestsToday, &l.RequestsMonth, &l.TokensToday, &l.TokensMonth,
		&l.LastDailyReset, &l.LastMonthlyReset, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const resetDailyUsage = `
UPDATE usage_ledgers
SET requests_today = 0, tokens_today = 0, last_daily_reset = $2, updated_at = now()
WHERE user_id = $1
`

// ResetDailyUsage zeroes the daily counters. Monthly counters are untouched;
// the two reset independently.
func (q *Queries) ResetDailyUsage(ctx context.Context, userID uuid.UUID, now time.Time) error {
	result, err := q.db.ExecContext(ctx, resetDailyUsage, userID, now)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

const resetMonthlyUsage = `
UPDATE usage_ledgers
SET requests_month = 0, tokens_month = 0, last_monthly_reset = $2, updated_at = now()
WHERE user_id = $1
`

func (q *Queries) ResetMonthlyUsage(ctx context.Context, userID uuid.UUID, now time.Time) error {
	result, err := q.db.ExecContext(ctx, resetMonthlyUsage, userID, now)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

const chargeUsage = `
UPDATE usage_ledgers
SET requests_today = requests_today + 1,
    requests_month = requests_month + 1,
    tokens_today = tokens_today + $2,
    tokens_month = tokens_month + $2,
    updated_at = now()
WHERE user_id = $1
RETURNING requests_today, requests_month
`

// ChargeUsage records one consumed AI request plus its token usage.
// The increment is a single atomic statement, so concurrent charges never
// lose updates.
func (q *Queries) ChargeUsage(ctx context.Context, userID uuid.UUID, tokens int64) (requestsToday, requestsMonth int, err error) {
	err = q.db.QueryRowContext(ctx, chargeUsage, userID, tokens).Scan(&requestsToday, &requestsMonth)
	return requestsToday, requestsMonth, err
}
