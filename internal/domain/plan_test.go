package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitsFor(t *testing.T) {
	tests := []struct {
		name string
		tier PlanTier
		want PlanLimits
	}{
		{
			name: "free tier",
			tier: PlanTierFree,
			want: PlanLimits{RequestsPerDay: 5, RequestsPerMonth: 50},
		},
		{
			name: "pro tier",
			tier: PlanTierPro,
			want: PlanLimits{RequestsPerDay: 50, RequestsPerMonth: 1000},
		},
		{
			name: "premium tier is unbounded",
			tier: PlanTierPremium,
			want: PlanLimits{RequestsPerDay: Unlimited, RequestsPerMonth: Unlimited},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LimitsFor(tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLimitsFor_UnknownTier(t *testing.T) {
	_, err := LimitsFor(PlanTier("ENTERPRISE"))
	require.Error(t, err)
	assert.Equal(t, EINTERNAL, ErrorCode(err))
}

func TestPlanTierValid(t *testing.T) {
	assert.True(t, PlanTierFree.Valid())
	assert.True(t, PlanTierPro.Valid())
	assert.True(t, PlanTierPremium.Valid())
	assert.False(t, PlanTier("free").Valid())
	assert.False(t, PlanTier("").Valid())
}

func TestPlanLimitsIsUnlimited(t *testing.T) {
	premium, err := LimitsFor(PlanTierPremium)
	require.NoError(t, err)
	assert.True(t, premium.IsUnlimited())

	free, err := LimitsFor(PlanTierFree)
	require.NoError(t, err)
	assert.False(t, free.IsUnlimited())
}
