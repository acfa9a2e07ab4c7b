// Package domain contains core business types and interfaces.
//
// This file defines plan tiers and their AI request ceilings.
package domain

// PlanTier represents the pricing tier of a user's plan.
type PlanTier string

const (
	PlanTierFree    PlanTier = "FREE"
	PlanTierPro     PlanTier = "PRO"
	PlanTierPremium PlanTier = "PREMIUM"
)

// Valid checks if the tier is one of the known values.
func (t PlanTier) Valid() bool {
	switch t {
	case PlanTierFree, PlanTierPro, PlanTierPremium:
		return true
	default:
		return false
	}
}

// Unlimited is the sentinel ceiling for tiers without a cap.
// Comparisons against it never reject: counters stay far below it.
const Unlimited = int(^uint(0) >> 1)

// PlanLimits defines the AI request ceilings for a plan tier.
type PlanLimits struct {
	RequestsPerDay   int
	RequestsPerMonth int
}

// IsUnlimited returns true if neither ceiling can be reached.
func (l PlanLimits) IsUnlimited() bool {
	return l.RequestsPerDay == Unlimited && l.RequestsPerMonth == Unlimited
}

// planLimits maps plan tiers to their ceilings. Loaded once per process,
// never mutated.
var planLimits = map[PlanTier]PlanLimits{
	PlanTierFree: {
		RequestsPerDay:   5,
		RequestsPerMonth: 50,
	},
	PlanTierPro: {
		RequestsPerDay:   50,
		RequestsPerMonth: 1000,
	},
	PlanTierPremium: {
		RequestsPerDay:   Unlimited,
		RequestsPerMonth: Unlimited,
	},
}

// LimitsFor returns the ceilings for a tier.
//
// An unknown tier is a programming error, not a user condition: the tier type
// is closed and rows are validated on write. It fails loud rather than
// falling through to an undefined-limits lookup.
func LimitsFor(tier PlanTier) (PlanLimits, error) {
	limits, ok := planLimits[tier]
	if !ok {
		return PlanLimits{}, ConfigError("plan.limits_for", "unknown plan tier: "+string(tier))
	}
	return limits, nil
}
