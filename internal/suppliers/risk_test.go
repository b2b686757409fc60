package suppliers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreCriticalFailingSupplier(t *testing.T) {
	scorer := NewRiskScorer(DefaultRiskConfig())

	in := RiskInputs{
		Status:            StatusBlacklisted,
		PerformanceRating: 1,
		OnTimeDeliveryPct: 50,
		FinancialHealth:   1,
	}
	// 10 + (6-1) + 3 + (6-1) = 23
	assert.Equal(t, 23, scorer.Points(in))
	assert.Equal(t, RiskCritical, scorer.Score(in))
}

func TestScoreHealthyActiveSupplier(t *testing.T) {
	scorer := NewRiskScorer(DefaultRiskConfig())

	in := RiskInputs{
		Status:            StatusActive,
		PerformanceRating: 5,
		OnTimeDeliveryPct: 98,
		FinancialHealth:   5,
	}
	// 1 + (6-5) + 0 + (6-5) = 3
	assert.Equal(t, 3, scorer.Points(in))
	assert.Equal(t, RiskLow, scorer.Score(in))
}

func TestScoreLevelBoundaries(t *testing.T) {
	cfg := DefaultRiskConfig()
	scorer := NewRiskScorer(cfg)

	// Pin inputs that land exactly on each inclusive ceiling.
	cases := []struct {
		name  string
		in    RiskInputs
		pts   int
		level RiskLevel
	}{
		{
			// 1 + (6-4) + 0 + (6-4) = 5
			name:  "top of low",
			in:    RiskInputs{Status: StatusActive, PerformanceRating: 4, OnTimeDeliveryPct: 95, FinancialHealth: 4},
			pts:   5,
			level: RiskLow,
		},
		{
			// 1 + (6-4) + 1 + (6-3) = 7 -> medium; 8 is the ceiling
			name:  "middle of medium",
			in:    RiskInputs{Status: StatusActive, PerformanceRating: 4, OnTimeDeliveryPct: 85, FinancialHealth: 3},
			pts:   7,
			level: RiskMedium,
		},
		{
			// 3 + (6-4) + 1 + (6-4) = 8, inclusive top of medium
			name:  "top of medium",
			in:    RiskInputs{Status: StatusPending, PerformanceRating: 4, OnTimeDeliveryPct: 85, FinancialHealth: 4},
			pts:   8,
			level: RiskMedium,
		},
		{
			// 5 + (6-3) + 1 + (6-3) = 12, inclusive top of high
			name:  "top of high",
			in:    RiskInputs{Status: StatusSuspended, PerformanceRating: 3, OnTimeDeliveryPct: 85, FinancialHealth: 3},
			pts:   12,
			level: RiskHigh,
		},
		{
			// 6 + (6-3) + 1 + (6-3) = 13, first critical score
			name:  "bottom of critical",
			in:    RiskInputs{Status: StatusUnderReview, PerformanceRating: 3, OnTimeDeliveryPct: 85, FinancialHealth: 3},
			pts:   13,
			level: RiskCritical,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.pts, scorer.Points(tc.in))
			assert.Equal(t, tc.level, scorer.Score(tc.in))
		})
	}
}

func TestDeliveryBreakpoints(t *testing.T) {
	scorer := NewRiskScorer(DefaultRiskConfig())
	base := RiskInputs{Status: StatusActive, PerformanceRating: 5, FinancialHealth: 5}

	at := func(pct float64) int {
		in := base
		in.OnTimeDeliveryPct = pct
		return scorer.Points(in)
	}

	// 90 and above adds nothing, [80, 90) adds 1, below 80 adds 3.
	assert.Equal(t, at(95), at(90))
	assert.Equal(t, at(90)+1, at(89.9))
	assert.Equal(t, at(90)+1, at(80))
	assert.Equal(t, at(90)+3, at(79.9))
}

func TestRatingsClampToValidRange(t *testing.T) {
	scorer := NewRiskScorer(DefaultRiskConfig())

	zeroed := RiskInputs{Status: StatusActive, PerformanceRating: 0, OnTimeDeliveryPct: 95, FinancialHealth: 0}
	floored := RiskInputs{Status: StatusActive, PerformanceRating: 1, OnTimeDeliveryPct: 95, FinancialHealth: 1}
	assert.Equal(t, scorer.Points(floored), scorer.Points(zeroed))

	inflated := RiskInputs{Status: StatusActive, PerformanceRating: 9, OnTimeDeliveryPct: 95, FinancialHealth: 9}
	capped := RiskInputs{Status: StatusActive, PerformanceRating: 5, OnTimeDeliveryPct: 95, FinancialHealth: 5}
	assert.Equal(t, scorer.Points(capped), scorer.Points(inflated))
}

func TestUnknownStatusPenalty(t *testing.T) {
	cfg := DefaultRiskConfig()
	scorer := NewRiskScorer(cfg)

	known := RiskInputs{Status: StatusActive, PerformanceRating: 5, OnTimeDeliveryPct: 95, FinancialHealth: 5}
	unknown := known
	unknown.Status = "mystery"

	assert.Equal(t, scorer.Points(known)-cfg.StatusPenalty[StatusActive]+cfg.UnknownStatusPenalty, scorer.Points(unknown))
}

func TestStatusPenaltyMonotonicWithSeverity(t *testing.T) {
	scorer := NewRiskScorer(DefaultRiskConfig())
	base := RiskInputs{PerformanceRating: 3, OnTimeDeliveryPct: 95, FinancialHealth: 3}

	at := func(status Status) int {
		in := base
		in.Status = status
		return scorer.Points(in)
	}

	// Riskier statuses never score below safer ones.
	ordered := []Status{StatusActive, StatusOnboarding, StatusPending, StatusInactive, StatusSuspended, StatusUnderReview, StatusBlacklisted}
	for i := 1; i < len(ordered); i++ {
		assert.GreaterOrEqual(t, at(ordered[i]), at(ordered[i-1]),
			"%s should score at least as high as %s", ordered[i], ordered[i-1])
	}
}
