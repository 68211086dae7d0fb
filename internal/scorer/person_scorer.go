package scorer

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/match"
	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/stats"
	"github.com/sells-group/leadrank-cli/internal/tuning"
)

// PersonScorer computes the per-person pillar scores from job title text and
// engagement history.
type PersonScorer struct {
	cfg *tuning.Config
	now time.Time
}

// NewPersonScorer returns a scorer bound to a tuning config and a fixed
// reference time for decay.
func NewPersonScorer(cfg *tuning.Config, now time.Time) *PersonScorer {
	return &PersonScorer{cfg: cfg, now: now}
}

// Seniority scores a job title against the seniority keyword components:
// maximum matching component score, then signed modifiers, clamped to
// [0, 100].
func (s *PersonScorer) Seniority(title string) float64 {
	if strings.TrimSpace(title) == "" {
		return 0
	}
	var best float64
	for _, comp := range s.cfg.People.Seniority.Components {
		if comp.IsModifier() || !comp.Matches(title) {
			continue
		}
		if comp.Score > best {
			best = comp.Score
		}
	}
	return s.applySeniorityModifiers(title, best)
}

// applySeniorityModifiers adjusts a base score by every matching seniority
// modifier (Sr +10, Jr -15 and the like), clamped to [0, 100].
func (s *PersonScorer) applySeniorityModifiers(title string, base float64) float64 {
	if strings.TrimSpace(title) == "" {
		return clamp100(base)
	}
	for _, comp := range s.cfg.People.Seniority.Components {
		if comp.IsModifier() && comp.Matches(title) {
			base += comp.Modifier
		}
	}
	return clamp100(base)
}

// Domain scores a job title against the domain keyword components. When
// several components match, the component holding the longest matching
// keyword wins: "user acquisition" is more specific than "data".
func (s *PersonScorer) Domain(title string) float64 {
	if strings.TrimSpace(title) == "" {
		return 0
	}
	bestLen, bestScore := 0, 0.0
	for _, comp := range s.cfg.People.Domain.Components {
		if comp.IsModifier() {
			continue
		}
		n, ok := comp.LongestMatch(title)
		if !ok {
			continue
		}
		if n > bestLen || (n == bestLen && comp.Score > bestScore) {
			bestLen, bestScore = n, comp.Score
		}
	}
	return bestScore
}

// OneOff checks the override table for titles scored outside the normal
// keyword pillars (recruiters, investors, press). The override value feeds
// both seniority and domain.
func (s *PersonScorer) OneOff(title string) (float64, bool) {
	if strings.TrimSpace(title) == "" {
		return 0, false
	}
	best, found := 0.0, false
	for _, comp := range s.cfg.People.OneOffs {
		if !comp.Matches(title) {
			continue
		}
		if !found || comp.Score > best {
			best, found = comp.Score, true
		}
	}
	return best, found
}

// TitlePillars returns the seniority and domain scores for a title, routing
// through the one-off override when one applies. Seniority modifiers still
// apply on top of an override.
func (s *PersonScorer) TitlePillars(title string) (seniority, domain float64) {
	if override, ok := s.OneOff(title); ok {
		return s.applySeniorityModifiers(title, override), override
	}
	return s.Seniority(title), s.Domain(title)
}

// RawWarmth sums the decayed engagement vectors for a person. The result is
// population-relative; callers normalize it across the run. No engagements
// means zero warmth, not a skipped person.
func (s *PersonScorer) RawWarmth(engagements []model.Engagement) float64 {
	var total float64
	for _, e := range engagements {
		vec, ok := s.cfg.People.Warmth.Vectors[strings.ToLower(strings.TrimSpace(e.Vector))]
		if !ok {
			continue
		}
		total += vec.Points * stats.DecayAt(e.OccurredAt, s.now, daysDuration(vec.HalfLifeDays))
	}
	return total
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PeopleRun scores one accumulated set end to end: title pillars, warmth,
// company matching, contact scores, lead composition, and population
// normalization.
type PeopleRun struct {
	cfg      *tuning.Config
	matcher  *match.Matcher
	baseline *stats.Baseline
	scorer   *PersonScorer
}

// NewPeopleRun builds a run over a company matcher. A non-nil baseline
// switches contact and lead normalization to absolute mode against the
// historical frame.
func NewPeopleRun(cfg *tuning.Config, matcher *match.Matcher, baseline *stats.Baseline, now time.Time) *PeopleRun {
	return &PeopleRun{
		cfg:      cfg,
		matcher:  matcher,
		baseline: baseline,
		scorer:   NewPersonScorer(cfg, now),
	}
}

// Score scores every person in the set. Scores are population-relative, so
// the whole set is required; an empty set is a contract violation. Rows come
// back in input order.
func (r *PeopleRun) Score(people []model.Person) ([]model.ScoredPerson, error) {
	n := len(people)
	if n == 0 {
		return nil, eris.New("scorer: people scoring over empty population")
	}
	zap.L().Info("scoring people", zap.Int("count", n))

	seniority := make([]float64, n)
	domain := make([]float64, n)
	rawWarmth := make([]float64, n)
	for i, p := range people {
		seniority[i], domain[i] = r.scorer.TitlePillars(p.JobTitle)
		rawWarmth[i] = r.scorer.RawWarmth(p.Engagements)
	}

	warmth, err := stats.NormalizePillar(rawWarmth)
	if err != nil {
		return nil, err
	}

	wSen := r.cfg.People.Seniority.Weight
	wDom := r.cfg.People.Domain.Weight
	wWarm := r.cfg.People.Warmth.Weight
	wSum := wSen + wDom + wWarm

	rawContact := make([]float64, n)
	rawLead := make([]float64, n)
	results := make([]model.ScoredPerson, n)
	matched := 0

	for i, p := range people {
		rawContact[i] = (seniority[i]*wSen + domain[i]*wDom + warmth[i]*wWarm) / wSum

		res, ok := r.matcher.Best(p.CompanyName)
		if ok {
			matched++
		}

		lead, penalty := ComposeLead(rawContact[i], res.CompanyScore, ok, p.HasTitle())
		rawLead[i] = lead

		results[i] = model.ScoredPerson{
			Person:       p,
			Seniority:    seniority[i],
			Domain:       domain[i],
			Warmth:       warmth[i],
			Penalty:      penalty,
			ContactScore: rawContact[i],
			LeadScore:    lead,
		}
		if ok {
			results[i].MatchedCompany = res.CompanyName
			results[i].MatchConfidence = res.Confidence
			results[i].CompanyScore = res.CompanyScore
		}
	}

	contact, err := r.normalizeContact(rawContact)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].ContactScore = contact[i]
	}

	if err := r.normalizeLeads(rawLead, results); err != nil {
		return nil, err
	}

	zap.L().Info("people scored",
		zap.Int("matched", matched),
		zap.Int("unmatched", n-matched),
		zap.Bool("absolute_mode", r.baseline != nil))
	return results, nil
}

func (r *PeopleRun) normalizeContact(raw []float64) ([]float64, error) {
	if r.baseline != nil {
		return stats.MinMaxAgainst(raw, r.baseline.ContactScore), nil
	}
	return stats.MinMax(raw)
}

// normalizeLeads normalizes lead scores in place across the non-floor rows.
// Floor rows keep the fixed floor score and stay out of the population.
func (r *PeopleRun) normalizeLeads(raw []float64, results []model.ScoredPerson) error {
	var idx []int
	var population []float64
	for i := range results {
		if results[i].Penalty == model.PenaltyFloor {
			results[i].LeadScore = floorScore
			continue
		}
		idx = append(idx, i)
		population = append(population, raw[i])
	}
	if len(population) == 0 {
		return nil
	}

	var normalized []float64
	if r.baseline != nil {
		normalized = stats.MinMaxAgainst(population, r.baseline.LeadScore)
	} else {
		var err error
		normalized, err = stats.MinMax(population)
		if err != nil {
			return err
		}
	}
	for j, i := range idx {
		results[i].LeadScore = normalized[j]
	}
	return nil
}
