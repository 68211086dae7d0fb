package model

import "time"

// Pillar names used for evidence maps and confidence weighting.
const (
	PillarAlignment = "alignment"
	PillarBudget    = "budget"
	PillarDemand    = "demand"
)

// FunnelEvent is one sales-funnel stage a company has reached, with the date
// the stage was entered. A company may carry several; the demand scorer keeps
// the maximum decayed value.
type FunnelEvent struct {
	Stage     string    `json:"stage"`
	ChangedAt time.Time `json:"changed_at"`
}

// PillarEvidence records which sources contributed data points to one pillar
// of one company. Consumed by the confidence calculator.
type PillarEvidence struct {
	Sources []string  `json:"sources,omitempty"`
	Points  []float64 `json:"points,omitempty"`
}

// Company is the canonical company record. The scoring core reads the raw
// signal fields and writes the derived score fields; everything else is
// maintained by the external enrichment pipeline.
type Company struct {
	Name       string `json:"name"`
	NormalName string `json:"normal_name"`
	URL        string `json:"url,omitempty"`
	Country    string `json:"country,omitempty"`

	// Alignment signals.
	Type        string `json:"type,omitempty"` // "co-developer" zeroes the dev flag
	MakesGames  bool   `json:"makes_games,omitempty"`
	F2P         bool   `json:"f2p,omitempty"`
	Mobile      bool   `json:"mobile,omitempty"`
	FoundedYear int    `json:"founded_year,omitempty"`

	// Budget signals. Pointers distinguish "missing" from zero; a missing
	// value contributes zero rather than being an error.
	Revenue30D    *float64 `json:"revenue_30d,omitempty"`
	AnnualRevenue *float64 `json:"annual_revenue,omitempty"`
	TotalFunding  *float64 `json:"total_funding,omitempty"`
	Headcount     *float64 `json:"headcount,omitempty"`

	// Demand signals.
	FunnelEvents       []FunnelEvent `json:"funnel_events,omitempty"`
	RevenueChangePct   *float64      `json:"revenue_change_pct,omitempty"`
	HeadcountChangePct *float64      `json:"headcount_change_pct,omitempty"`
	LatestFunding      *float64      `json:"latest_funding,omitempty"`
	LatestFundingDate  time.Time     `json:"latest_funding_date,omitempty"`
	HiringSignal       *float64      `json:"hiring_signal,omitempty"`
	HiringSignalDate   time.Time     `json:"hiring_signal_date,omitempty"`

	// Confidence evidence, keyed by pillar name.
	Evidence map[string]PillarEvidence `json:"evidence,omitempty"`

	// Blacklist. Blacklisted companies are still scored and still count
	// toward population statistics; consumers must filter on the flag.
	Blacklisted     bool      `json:"blacklisted,omitempty"`
	BlacklistReason string    `json:"blacklist_reason,omitempty"`
	BlacklistedAt   time.Time `json:"blacklisted_at,omitempty"`

	// Derived scores, recomputed in full on every scoring run.
	Alignment  float64 `json:"alignment,omitempty"`
	Budget     float64 `json:"budget,omitempty"`
	Demand     float64 `json:"demand,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Score      float64 `json:"score,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Revenue returns the best available revenue signal: 30-day tracked revenue,
// falling back to the annual revenue estimate.
func (c Company) Revenue() *float64 {
	if c.Revenue30D != nil {
		return c.Revenue30D
	}
	return c.AnnualRevenue
}
