package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNeedsDailyReset(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		lastReset time.Time
		want      bool
	}{
		{
			name:      "same day earlier hour",
			lastReset: time.Date(2025, time.March, 15, 0, 30, 0, 0, time.UTC),
			want:      false,
		},
		{
			name:      "same instant",
			lastReset: now,
			want:      false,
		},
		{
			name:      "yesterday just before midnight",
			lastReset: time.Date(2025, time.March, 14, 23, 59, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "same calendar day last year",
			lastReset: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "zero value",
			lastReset: time.Time{},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsDailyReset(tt.lastReset, now))
		})
	}
}

func TestNeedsDailyReset_Idempotent(t *testing.T) {
	// Once reset, the check stays false for the rest of the calendar day.
	now := time.Date(2025, time.March, 15, 0, 1, 0, 0, time.UTC)
	lastReset := now

	assert.False(t, NeedsDailyReset(lastReset, now))
	assert.False(t, NeedsDailyReset(lastReset, now.Add(10*time.Hour)))
	assert.False(t, NeedsDailyReset(lastReset, time.Date(2025, time.March, 15, 23, 59, 59, 0, time.UTC)))
	assert.True(t, NeedsDailyReset(lastReset, time.Date(2025, time.March, 16, 0, 0, 1, 0, time.UTC)))
}

func TestNeedsMonthlyReset(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		lastReset time.Time
		want      bool
	}{
		{
			name:      "same month different day",
			lastReset: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			want:      false,
		},
		{
			name:      "previous month",
			lastReset: time.Date(2025, time.February, 28, 23, 59, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "same month last year",
			lastReset: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "zero value",
			lastReset: time.Time{},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsMonthlyReset(tt.lastReset, now))
		})
	}
}

func TestResetsAreIndependent(t *testing.T) {
	// First of the month at noon after a ledger touched yesterday: both
	// resets fire, but they are separate decisions on separate counters.
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	lastReset := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)

	assert.True(t, NeedsDailyReset(lastReset, now))
	assert.True(t, NeedsMonthlyReset(lastReset, now))

	// Mid-month day boundary: only the daily reset fires.
	now = time.Date(2025, time.April, 2, 12, 0, 0, 0, time.UTC)
	lastReset = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, NeedsDailyReset(lastReset, now))
	assert.False(t, NeedsMonthlyReset(lastReset, now))
}
