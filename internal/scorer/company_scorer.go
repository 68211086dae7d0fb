package scorer

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/stats"
	"github.com/sells-group/leadrank-cli/internal/tuning"
)

// coDeveloperType zeroes the dev alignment flag: co-developers make games for
// other studios, not for themselves.
const coDeveloperType = "co-developer"

// CompanyBreakdown carries the normalized sub-component scores behind one
// company's pillars, for the report output.
type CompanyBreakdown struct {
	Dev, F2P, Mobile, Fresh                   float64
	Revenue, Funding, Headcount               float64
	Status, Volatility, Hiring                float64
	RevenueDelta, RunwayDelta, HeadcountDelta float64
}

// CompanyScorer scores the company store: pillar sub-components, pillar
// normalization, the weighted company score, and confidence.
type CompanyScorer struct {
	cfg *tuning.Config
	now time.Time
}

// NewCompanyScorer returns a scorer bound to a tuning config and a fixed
// reference time for decay and founding-age checks.
func NewCompanyScorer(cfg *tuning.Config, now time.Time) *CompanyScorer {
	return &CompanyScorer{cfg: cfg, now: now}
}

// Score recomputes every derived score field across the population and
// returns scored copies in input order, with per-company sub-component
// breakdowns. Scores are population-relative: the full store is required,
// and blacklisted companies stay in the population.
func (s *CompanyScorer) Score(companies []model.Company) ([]model.Company, []CompanyBreakdown, error) {
	n := len(companies)
	if n == 0 {
		return nil, nil, eris.New("scorer: company scoring over empty population")
	}
	zap.L().Info("scoring companies", zap.Int("count", n))

	dev := s.devScores(companies)
	f2p := s.flagScores(companies, func(c model.Company) bool { return c.F2P }, s.cfg.Company.Alignment.F2PPoints)
	mobile := s.flagScores(companies, func(c model.Company) bool { return c.Mobile }, s.cfg.Company.Alignment.MobilePoints)
	fresh := s.freshScores(companies)

	revenue := s.percentileScores(companies, func(c model.Company) *float64 { return c.Revenue() }, s.cfg.Company.Budget.RevenuePoints)
	funding := s.percentileScores(companies, func(c model.Company) *float64 { return c.TotalFunding }, s.cfg.Company.Budget.FundingPoints)
	headcount := s.percentileScores(companies, func(c model.Company) *float64 { return c.Headcount }, s.cfg.Company.Budget.HeadcountPoints)

	status := s.statusScores(companies)
	volatility, revDelta, runwayDelta, headDelta := s.volatilityScores(companies)
	hiring := s.hiringScores(companies)

	alignmentRaw := make([]float64, n)
	budgetRaw := make([]float64, n)
	demandRaw := make([]float64, n)
	for i := 0; i < n; i++ {
		alignmentRaw[i] = dev[i] + f2p[i] + mobile[i] + fresh[i]
		budgetRaw[i] = revenue[i] + funding[i] + headcount[i]
		demandRaw[i] = status[i] + volatility[i] + hiring[i]
	}

	alignment, err := stats.NormalizePillar(alignmentRaw)
	if err != nil {
		return nil, nil, err
	}
	budget, err := stats.NormalizePillar(budgetRaw)
	if err != nil {
		return nil, nil, err
	}
	demand, err := stats.NormalizePillar(demandRaw)
	if err != nil {
		return nil, nil, err
	}

	wAlign := s.cfg.Company.Alignment.Weight
	wBudget := s.cfg.Company.Budget.Weight
	wDemand := s.cfg.Company.Demand.Weight
	wSum := wAlign + wBudget + wDemand

	scoreRaw := make([]float64, n)
	for i := 0; i < n; i++ {
		scoreRaw[i] = (alignment[i]*wAlign + budget[i]*wBudget + demand[i]*wDemand) / wSum
	}
	finalScores, err := stats.NormalizePillar(scoreRaw)
	if err != nil {
		return nil, nil, err
	}

	entityConf, _, err := NewConfidence(s.cfg).Score(companies)
	if err != nil {
		return nil, nil, err
	}

	breakdowns := make([]CompanyBreakdown, n)
	for i := range breakdowns {
		breakdowns[i] = CompanyBreakdown{
			Dev: dev[i], F2P: f2p[i], Mobile: mobile[i], Fresh: fresh[i],
			Revenue: revenue[i], Funding: funding[i], Headcount: headcount[i],
			Status: status[i], Volatility: volatility[i], Hiring: hiring[i],
			RevenueDelta: revDelta[i], RunwayDelta: runwayDelta[i], HeadcountDelta: headDelta[i],
		}
	}

	scored := make([]model.Company, n)
	for i, c := range companies {
		c.Alignment = alignment[i]
		c.Budget = budget[i]
		c.Demand = demand[i]
		c.Score = finalScores[i]
		c.Confidence = entityConf[i]
		c.UpdatedAt = s.now
		scored[i] = c
	}

	zap.L().Info("companies scored", zap.Int("count", n))
	return scored, breakdowns, nil
}

func (s *CompanyScorer) devScores(companies []model.Company) []float64 {
	out := make([]float64, len(companies))
	for i, c := range companies {
		if strings.EqualFold(strings.TrimSpace(c.Type), coDeveloperType) {
			continue
		}
		if c.MakesGames {
			out[i] = s.cfg.Company.Alignment.DevPoints
		}
	}
	return out
}

func (s *CompanyScorer) flagScores(companies []model.Company, flag func(model.Company) bool, points float64) []float64 {
	out := make([]float64, len(companies))
	for i, c := range companies {
		if flag(c) {
			out[i] = points
		}
	}
	return out
}

func (s *CompanyScorer) freshScores(companies []model.Company) []float64 {
	out := make([]float64, len(companies))
	maxAge := s.cfg.Company.Alignment.FreshMaxAgeYears
	for i, c := range companies {
		if c.FoundedYear > 0 && s.now.Year()-c.FoundedYear <= maxAge {
			out[i] = s.cfg.Company.Alignment.FreshPoints
		}
	}
	return out
}

// percentileScores ranks each company's signal within the population of
// companies that have the signal at all, scaled to the component's max
// points. Missing signals contribute zero, never an error.
func (s *CompanyScorer) percentileScores(companies []model.Company, signal func(model.Company) *float64, maxPoints float64) []float64 {
	var population []float64
	for _, c := range companies {
		if v := signal(c); v != nil {
			population = append(population, *v)
		}
	}

	out := make([]float64, len(companies))
	if len(population) == 0 {
		return out
	}
	for i, c := range companies {
		if v := signal(c); v != nil {
			out[i] = stats.PercentileOf(*v, population) / 100 * maxPoints
		}
	}
	return out
}

// statusScores assigns decayed funnel-stage points per company, keeping the
// maximum when several stages apply.
func (s *CompanyScorer) statusScores(companies []model.Company) []float64 {
	out := make([]float64, len(companies))
	for i, c := range companies {
		for _, event := range c.FunnelEvents {
			for _, stage := range s.cfg.Company.Demand.MatchingStages(event.Stage) {
				halfLife := daysDuration(stage.HalfLifeDays)
				pts := stage.Points * stats.DecayAt(event.ChangedAt, s.now, halfLife)
				if pts > out[i] {
					out[i] = pts
				}
			}
		}
	}
	return out
}

// volatilityScores combines three change signals into the volatility
// sub-score. Revenue and headcount change ranks are inverted: shrinking
// companies need outside help more than growing ones. Runway is the latest
// funding amount decayed since the round closed, ranked uninverted.
func (s *CompanyScorer) volatilityScores(companies []model.Company) (scores, revDelta, runwayDelta, headDelta []float64) {
	n := len(companies)
	vol := s.cfg.Company.Demand.Volatility

	revDelta = s.invertedChangeRanks(companies, func(c model.Company) *float64 { return c.RevenueChangePct })
	headDelta = s.invertedChangeRanks(companies, func(c model.Company) *float64 { return c.HeadcountChangePct })

	runwayDelta = make([]float64, n)
	adjusted := make([]*float64, n)
	var runwayPop []float64
	runwayHalfLife := daysDuration(vol.RunwayHalfLifeDays)
	for i, c := range companies {
		if c.LatestFunding == nil || c.LatestFundingDate.IsZero() {
			continue
		}
		v := *c.LatestFunding * stats.DecayAt(c.LatestFundingDate, s.now, runwayHalfLife)
		adjusted[i] = &v
		runwayPop = append(runwayPop, v)
	}
	for i := range companies {
		if adjusted[i] != nil {
			runwayDelta[i] = stats.PercentileOf(*adjusted[i], runwayPop)
		}
	}

	scores = make([]float64, n)
	weightSum := vol.RevenueWeight + vol.RunwayWeight + vol.HeadcountWeight
	if weightSum <= 0 || vol.MaxPoints <= 0 {
		return scores, revDelta, runwayDelta, headDelta
	}
	for i := 0; i < n; i++ {
		weighted := (revDelta[i]*vol.RevenueWeight +
			runwayDelta[i]*vol.RunwayWeight +
			headDelta[i]*vol.HeadcountWeight) / weightSum
		scores[i] = weighted / 100 * vol.MaxPoints
	}
	return scores, revDelta, runwayDelta, headDelta
}

func (s *CompanyScorer) invertedChangeRanks(companies []model.Company, signal func(model.Company) *float64) []float64 {
	var population []float64
	for _, c := range companies {
		if v := signal(c); v != nil {
			population = append(population, *v)
		}
	}

	out := make([]float64, len(companies))
	if len(population) == 0 {
		return out
	}
	for i, c := range companies {
		if v := signal(c); v != nil {
			out[i] = 100 - stats.PercentileOf(*v, population)
		}
	}
	return out
}

// hiringScores awards decayed points to companies with an active hiring
// signal.
func (s *CompanyScorer) hiringScores(companies []model.Company) []float64 {
	out := make([]float64, len(companies))
	points := s.cfg.Company.Demand.HiringPoints
	if points <= 0 {
		return out
	}
	halfLife := daysDuration(s.cfg.Company.Demand.HiringHalfLifeDays)
	for i, c := range companies {
		if c.HiringSignal != nil && *c.HiringSignal > 0 {
			out[i] = points * stats.DecayAt(c.HiringSignalDate, s.now, halfLife)
		}
	}
	return out
}

func daysDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
