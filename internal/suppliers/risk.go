package suppliers

// RiskLevel is a derived categorical risk assessment. It is always
// recomputed from current inputs, never stored as independent truth.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskInputs are the weighted components of a supplier's risk score
type RiskInputs struct {
	Status            Status  `json:"status"`
	PerformanceRating int     `json:"performance_rating"`
	OnTimeDeliveryPct float64 `json:"on_time_delivery_pct"`
	FinancialHealth   int     `json:"financial_health"`
}

// RiskConfig carries the scoring weights and level breakpoints. The
// numbers are business-chosen constants, kept configurable rather than
// embedded at use sites.
type RiskConfig struct {
	// StatusPenalty is the fixed contribution per status, monotonic with
	// how unsafe that status is for doing business
	StatusPenalty map[Status]int
	// UnknownStatusPenalty applies when the status is outside the registry
	UnknownStatusPenalty int
	// RatingBase converts 1-5 ratings to points as RatingBase - rating
	RatingBase int
	// DeliveryWarnPct / DeliveryLowPct are the on-time delivery breakpoints
	DeliveryWarnPct   float64
	DeliveryWarnPts   int
	DeliveryLowPct    float64
	DeliveryLowPts    int
	// LowMax / MediumMax / HighMax are the inclusive score ceilings per level
	LowMax    int
	MediumMax int
	HighMax   int
}

// DefaultRiskConfig returns the standard scoring configuration
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		StatusPenalty: map[Status]int{
			StatusActive:      1,
			StatusOnboarding:  2,
			StatusPending:     3,
			StatusInactive:    4,
			StatusSuspended:   5,
			StatusUnderReview: 6,
			StatusBlacklisted: 10,
		},
		UnknownStatusPenalty: 6,
		RatingBase:           6,
		DeliveryWarnPct:      90,
		DeliveryWarnPts:      1,
		DeliveryLowPct:       80,
		DeliveryLowPts:       3,
		LowMax:               5,
		MediumMax:            8,
		HighMax:              12,
	}
}

// RiskScorer derives a supplier's risk level from its status and
// performance metrics. Scoring is pure and side-effect free.
type RiskScorer struct {
	cfg RiskConfig
}

// NewRiskScorer creates a scorer with the given configuration
func NewRiskScorer(cfg RiskConfig) RiskScorer {
	return RiskScorer{cfg: cfg}
}

// Points returns the additive risk score; higher is riskier
func (s RiskScorer) Points(in RiskInputs) int {
	points := 0

	if penalty, ok := s.cfg.StatusPenalty[in.Status]; ok {
		points += penalty
	} else {
		points += s.cfg.UnknownStatusPenalty
	}

	points += s.cfg.RatingBase - clampRating(in.PerformanceRating)

	switch {
	case in.OnTimeDeliveryPct < s.cfg.DeliveryLowPct:
		points += s.cfg.DeliveryLowPts
	case in.OnTimeDeliveryPct < s.cfg.DeliveryWarnPct:
		points += s.cfg.DeliveryWarnPts
	}

	points += s.cfg.RatingBase - clampRating(in.FinancialHealth)

	return points
}

// Score maps the additive points onto a risk level
func (s RiskScorer) Score(in RiskInputs) RiskLevel {
	points := s.Points(in)
	switch {
	case points <= s.cfg.LowMax:
		return RiskLow
	case points <= s.cfg.MediumMax:
		return RiskMedium
	case points <= s.cfg.HighMax:
		return RiskHigh
	default:
		return RiskCritical
	}
}

func clampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
