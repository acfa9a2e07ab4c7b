// Package service contains the business logic layer.
//
// This file implements the quota gate: the single authoritative decision
// point for whether a user may consume one AI insight request, and for
// recording consumption afterwards.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/metrics"
	"github.com/google/uuid"
)

// =============================================================================
// Interface Definitions
// =============================================================================

// QuotaStore is the narrow ledger contract the quota gate needs.
// *repository.Queries satisfies it; tests use an in-memory fake.
type QuotaStore interface {
	GetUserPlanTier(ctx context.Context, id uuid.UUID) (domain.PlanTier, error)
	GetUsageLedger(ctx context.Context, userID uuid.UUID) (*domain.UsageLedger, error)
	ResetDailyUsage(ctx context.Context, userID uuid.UUID, now time.Time) error
	ResetMonthlyUsage(ctx context.Context, userID uuid.UUID, now time.Time) error
	ChargeUsage(ctx context.Context, userID uuid.UUID, tokens int64) (requestsToday, requestsMonth int, err error)
}

// QuotaService defines operations for admitting and recording AI usage.
type QuotaService interface {
	// Admit decides whether the user may consume one AI request now.
	// It applies any pending daily/monthly resets (persisted immediately,
	// even when the request is then rejected) and checks both ceilings.
	// Returns nil when admitted; a quota error (429) when a ceiling is hit;
	// a billing error (403) when the user has no plan or ledger row.
	//
	// Admit does NOT charge. The caller invokes Charge strictly after the
	// downstream AI call succeeds, so a failed upstream call never consumes
	// quota.
	Admit(ctx context.Context, userID uuid.UUID) error

	// Charge records one consumed request plus its token usage.
	// The increment is atomic at the database, so concurrent charges never
	// lose updates. Charging is unconditional once the upstream call
	// succeeded: a later degraded parse does not refund.
	Charge(ctx context.Context, userID uuid.UUID, tokens int64) error

	// Status returns the user's current usage against their plan ceilings,
	// with pending resets applied virtually (nothing persisted on read).
	Status(ctx context.Context, userID uuid.UUID) (*domain.QuotaStatus, error)
}

// =============================================================================
// Implementation
// =============================================================================

type quotaService struct {
	store  QuotaStore
	logger *slog.Logger
	now    func() time.Time
}

// NewQuotaService creates a new QuotaService.
func NewQuotaService(store QuotaStore, logger *slog.Logger) QuotaService {
	return &quotaService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Admit decides whether the user may consume one AI request now.
//
// The read-then-check sequence is not atomic across concurrent requests for
// the same user: two simultaneous requests can both read the same
// pre-increment counter and both be admitted, so the effective ceiling can be
// exceeded by a small margin under race. The charge itself is an atomic
// increment, so counters never lose updates.
func (s *quotaService) Admit(ctx context.Context, userID uuid.UUID) error {
	const op = "quota.admit"

	tier, ledger, err := s.loadBilling(ctx, op, userID)
	if err != nil {
		return err
	}

	now := s.now()

	// Roll over stale counters before evaluating. The resets persist even if
	// the request is then rejected.
	if domain.NeedsDailyReset(ledger.LastDailyReset, now) {
		if err := s.store.ResetDailyUsage(ctx, userID, now); err != nil {
			return domain.Internal(err, op, "failed to reset daily usage")
		}
		ledger.RequestsToday = 0
		ledger.TokensToday = 0
		ledger.LastDailyReset = now
	}
	if domain.NeedsMonthlyReset(ledger.LastMonthlyReset, now) {
		if err := s.store.ResetMonthlyUsage(ctx, userID, now); err != nil {
			return domain.Internal(err, op, "failed to reset monthly usage")
		}
		ledger.RequestsMonth = 0
		ledger.TokensMonth = 0
		ledger.LastMonthlyReset = now
	}

	limits, err := domain.LimitsFor(tier)
	if err != nil {
		return err
	}

	if ledger.RequestsToday >= limits.RequestsPerDay {
		s.logger.Info("AI quota exceeded",
			"user_id", userID,
			"tier", tier,
			"period", "day",
			"used", ledger.RequestsToday,
			"limit", limits.RequestsPerDay,
		)
		metrics.QuotaRejections.WithLabelValues(string(tier)).Inc()
		return domain.QuotaExceeded(op, ledger.RequestsToday, limits.RequestsPerDay)
	}
	if ledger.RequestsMonth >= limits.RequestsPerMonth {
		s.logger.Info("AI quota exceeded",
			"user_id", userID,
			"tier", tier,
			"period", "month",
			"used", ledger.RequestsMonth,
			"limit", limits.RequestsPerMonth,
		)
		metrics.QuotaRejections.WithLabelValues(string(tier)).Inc()
		return domain.QuotaExceeded(op, ledger.RequestsMonth, limits.RequestsPerMonth)
	}

	return nil
}

// Charge records one consumed request plus its token usage.
func (s *quotaService) Charge(ctx context.Context, userID uuid.UUID, tokens int64) error {
	const op = "quota.charge"

	if _, _, err := s.store.ChargeUsage(ctx, userID, tokens); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BillingInfoMissing(op)
		}
		return domain.Internal(err, op, "failed to record usage")
	}
	return nil
}

// Status returns current usage against plan ceilings.
func (s *quotaService) Status(ctx context.Context, userID uuid.UUID) (*domain.QuotaStatus, error) {
	const op = "quota.status"

	tier, ledger, err := s.loadBilling(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	limits, err := domain.LimitsFor(tier)
	if err != nil {
		return nil, err
	}

	// Apply pending resets virtually so a ledger untouched since yesterday
	// reads as zero. Nothing is persisted on a read.
	now := s.now()
	if domain.NeedsDailyReset(ledger.LastDailyReset, now) {
		ledger.RequestsToday = 0
		ledger.TokensToday = 0
	}
	if domain.NeedsMonthlyReset(ledger.LastMonthlyReset, now) {
		ledger.RequestsMonth = 0
		ledger.TokensMonth = 0
	}

	return &domain.QuotaStatus{
		Tier:          tier,
		RequestsToday: ledger.RequestsToday,
		RequestsMonth: ledger.RequestsMonth,
		DailyLimit:    limits.RequestsPerDay,
		MonthlyLimit:  limits.RequestsPerMonth,
		TokensToday:   ledger.TokensToday,
		TokensMonth:   ledger.TokensMonth,
		IsUnlimited:   limits.IsUnlimited(),
	}, nil
}

// loadBilling loads the plan tier and usage ledger, translating a missing
// row on either side into the fixed billing-info error.
func (s *quotaService) loadBilling(ctx context.Context, op string, userID uuid.UUID) (domain.PlanTier, *domain.UsageLedger, error) {
	tier, err := s.store.GetUserPlanTier(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, domain.BillingInfoMissing(op)
		}
		return "", nil, domain.Internal(err, op, "failed to load plan")
	}

	ledger, err := s.store.GetUsageLedger(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, domain.BillingInfoMissing(op)
		}
		return "", nil, domain.Internal(err, op, "failed to load usage ledger")
	}

	return tier, ledger, nil
}
