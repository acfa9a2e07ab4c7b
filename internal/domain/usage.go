// Package domain contains core business types and interfaces.
//
// This file defines the per-user AI usage ledger and the reset policy that
// decides when its counters roll over.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// UsageLedger holds the persisted per-user AI usage counters.
//
// Daily and monthly counters reset independently — RequestsToday is never
// derived from RequestsMonth and may exceed it briefly across a monthly
// boundary. The ledger is created zeroed when the account is created and is
// mutated only by the quota gate.
type UsageLedger struct {
	UserID           uuid.UUID
	RequestsToday    int
	RequestsMonth    int
	TokensToday      int64
	TokensMonth      int64
	LastDailyReset   time.Time
	LastMonthlyReset time.Time
	UpdatedAt        time.Time
}

// NeedsDailyReset reports whether the daily counters must roll over before
// the next quota evaluation.
//
// The comparison is by calendar date in now's location (process-local time),
// not a rolling 24h window: a ledger last reset at 23:59 is reset again at
// 00:01.
func NeedsDailyReset(lastReset, now time.Time) bool {
	last := lastReset.In(now.Location())
	return last.Year() != now.Year() || last.YearDay() != now.YearDay()
}

// NeedsMonthlyReset reports whether the monthly counters must roll over.
// True iff the year or calendar month differs from now's.
func NeedsMonthlyReset(lastReset, now time.Time) bool {
	last := lastReset.In(now.Location())
	return last.Year() != now.Year() || last.Month() != now.Month()
}

// QuotaStatus summarizes current usage against plan ceilings for the usage
// endpoint.
type QuotaStatus struct {
	Tier          PlanTier `json:"tier"`
	RequestsToday int      `json:"requestsToday"`
	RequestsMonth int      `json:"requestsMonth"`
	DailyLimit    int      `json:"dailyLimit"`
	MonthlyLimit  int      `json:"monthlyLimit"`
	TokensToday   int64    `json:"tokensToday"`
	TokensMonth   int64    `json:"tokensMonth"`
	IsUnlimited   bool     `json:"isUnlimited"`
}
