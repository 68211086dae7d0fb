// Package tuning loads and validates the versioned scoring configuration:
// pillar weights, keyword maps, funnel stage points, half-lives, one-off
// overrides, and source reliability scores. Scoring code takes a *Config and
// hardcodes none of these values.
package tuning

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Component is one keyword-driven scoring rule inside a pillar. Score and
// Modifier are mutually exclusive: a scoring component sets the pillar value
// when any of its keywords match, a modifier component adjusts whatever value
// other components produced.
type Component struct {
	Keywords string  `yaml:"keywords"`
	Score    float64 `yaml:"score"`
	Modifier float64 `yaml:"modifier"`

	patterns []keywordPattern
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// IsModifier reports whether the component adjusts rather than sets a score.
func (c *Component) IsModifier() bool {
	return c.Modifier != 0
}

// Matches reports whether any of the component's keywords appear in the
// title as a whole word.
func (c *Component) Matches(title string) bool {
	for _, p := range c.patterns {
		if p.re.MatchString(title) {
			return true
		}
	}
	return false
}

// LongestMatch returns the length of the longest keyword that matches the
// title, or ok=false when none do. Longer keywords are more specific, so the
// domain pillar prefers them across components.
func (c *Component) LongestMatch(title string) (int, bool) {
	best, ok := 0, false
	for _, p := range c.patterns {
		if len(p.keyword) > best && p.re.MatchString(title) {
			best, ok = len(p.keyword), true
		}
	}
	return best, ok
}

func (c *Component) compile() error {
	c.patterns = c.patterns[:0]
	for _, kw := range splitKeywords(c.Keywords) {
		re, err := regexp.Compile(`(?i)(^|[^a-z])(` + regexp.QuoteMeta(kw) + `)($|[^a-z])`)
		if err != nil {
			return eris.Wrapf(err, "tuning: compile keyword %q", kw)
		}
		c.patterns = append(c.patterns, keywordPattern{keyword: kw, re: re})
	}
	return nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if kw := strings.ToLower(strings.TrimSpace(part)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// PersonPillar is a keyword-scored pillar (Seniority, Domain).
type PersonPillar struct {
	Weight     float64               `yaml:"weight"`
	Components map[string]*Component `yaml:"components"`
}

// WarmthVector is one engagement channel: full points at the moment of
// engagement, halved every HalfLifeDays after it.
type WarmthVector struct {
	Points       float64 `yaml:"points"`
	HalfLifeDays float64 `yaml:"half_life_days"`
}

// WarmthPillar weights decayed engagement vectors.
type WarmthPillar struct {
	Weight  float64                 `yaml:"weight"`
	Vectors map[string]WarmthVector `yaml:"vectors"`
}

// PeopleConfig tunes contact scoring.
type PeopleConfig struct {
	Seniority PersonPillar          `yaml:"seniority"`
	Domain    PersonPillar          `yaml:"domain"`
	Warmth    WarmthPillar          `yaml:"warmth"`
	OneOffs   map[string]*Component `yaml:"one_offs"`
}

// AlignmentPillar tunes the portfolio-fit flags.
type AlignmentPillar struct {
	Weight           float64 `yaml:"weight"`
	DevPoints        float64 `yaml:"dev_points"`
	F2PPoints        float64 `yaml:"f2p_points"`
	MobilePoints     float64 `yaml:"mobile_points"`
	FreshPoints      float64 `yaml:"fresh_points"`
	FreshMaxAgeYears int     `yaml:"fresh_max_age_years"`
}

// BudgetPillar tunes the spend-capacity percentile components.
type BudgetPillar struct {
	Weight          float64 `yaml:"weight"`
	RevenuePoints   float64 `yaml:"revenue_points"`
	FundingPoints   float64 `yaml:"funding_points"`
	HeadcountPoints float64 `yaml:"headcount_points"`
}

// FunnelStage maps a funnel status substring to points with a per-stage
// half-life. Stages are checked in document order; the first containing
// match wins.
type FunnelStage struct {
	Match        string  `yaml:"match"`
	Points       float64 `yaml:"points"`
	HalfLifeDays float64 `yaml:"half_life_days"`
}

// Volatility tunes the change-signal sub-score.
type Volatility struct {
	MaxPoints          float64 `yaml:"max_points"`
	RevenueWeight      float64 `yaml:"revenue_weight"`
	RunwayWeight       float64 `yaml:"runway_weight"`
	HeadcountWeight    float64 `yaml:"headcount_weight"`
	RunwayHalfLifeDays float64 `yaml:"runway_half_life_days"`
}

// DemandPillar tunes buying-intent scoring.
type DemandPillar struct {
	Weight             float64       `yaml:"weight"`
	Stages             []FunnelStage `yaml:"stages"`
	Volatility         Volatility    `yaml:"volatility"`
	HiringPoints       float64       `yaml:"hiring_points"`
	HiringHalfLifeDays float64       `yaml:"hiring_half_life_days"`
}

// MatchingStages returns every funnel stage whose match substring appears in
// the status value. A status can satisfy several stages; the scorer keeps the
// best decayed points among them.
func (d DemandPillar) MatchingStages(status string) []FunnelStage {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return nil
	}
	var matched []FunnelStage
	for _, stage := range d.Stages {
		if strings.Contains(status, strings.ToLower(stage.Match)) {
			matched = append(matched, stage)
		}
	}
	return matched
}

// CompanyConfig tunes company scoring.
type CompanyConfig struct {
	Alignment AlignmentPillar `yaml:"alignment"`
	Budget    BudgetPillar    `yaml:"budget"`
	Demand    DemandPillar    `yaml:"demand"`
}

// MatchConfig tunes person-to-company matching.
type MatchConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// SourcesConfig maps source labels to reliability scores (0-100) used by the
// confidence calculator.
type SourcesConfig struct {
	Reliability map[string]float64 `yaml:"reliability"`
}

// Config is the full tuning document.
type Config struct {
	Version string        `yaml:"version"`
	Match   MatchConfig   `yaml:"match"`
	People  PeopleConfig  `yaml:"people"`
	Company CompanyConfig `yaml:"company"`
	Sources SourcesConfig `yaml:"sources"`
}

// Load reads, parses, compiles, and validates a tuning document. Any problem
// aborts the run: scoring against a half-understood tuning file silently
// produces garbage leads.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tuning: read %s", path)
	}

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, eris.Wrapf(err, "tuning: parse %s", path)
	}

	if err := cfg.Compile(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Compile builds the keyword matchers for every component.
func (c *Config) Compile() error {
	groups := []map[string]*Component{
		c.People.Seniority.Components,
		c.People.Domain.Components,
		c.People.OneOffs,
	}
	for _, group := range groups {
		for _, comp := range group {
			if err := comp.compile(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks that the tuning document is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	if c.Match.Threshold <= 0 || c.Match.Threshold > 100 {
		errs = append(errs, "match.threshold must be in (0, 100]")
	}

	personWeights := map[string]float64{
		"people.seniority.weight": c.People.Seniority.Weight,
		"people.domain.weight":    c.People.Domain.Weight,
		"people.warmth.weight":    c.People.Warmth.Weight,
	}
	personSum := 0.0
	for name, w := range personWeights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
		personSum += w
	}
	if personSum <= 0 {
		errs = append(errs, "people pillar weight sum must be > 0")
	}

	companyWeights := map[string]float64{
		"company.alignment.weight": c.Company.Alignment.Weight,
		"company.budget.weight":    c.Company.Budget.Weight,
		"company.demand.weight":    c.Company.Demand.Weight,
	}
	companySum := 0.0
	for name, w := range companyWeights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
		companySum += w
	}
	if companySum <= 0 {
		errs = append(errs, "company pillar weight sum must be > 0")
	}

	validateComponents := func(prefix string, comps map[string]*Component) {
		for name, comp := range comps {
			if comp == nil {
				errs = append(errs, fmt.Sprintf("%s.%s is empty", prefix, name))
				continue
			}
			if comp.Score != 0 && comp.Modifier != 0 {
				errs = append(errs, fmt.Sprintf("%s.%s sets both score and modifier", prefix, name))
			}
			if comp.Score == 0 && comp.Modifier == 0 {
				errs = append(errs, fmt.Sprintf("%s.%s sets neither score nor modifier", prefix, name))
			}
			if comp.Score < 0 || comp.Score > 100 {
				errs = append(errs, fmt.Sprintf("%s.%s score must be between 0 and 100", prefix, name))
			}
			if len(splitKeywords(comp.Keywords)) == 0 {
				errs = append(errs, fmt.Sprintf("%s.%s has no keywords", prefix, name))
			}
		}
	}
	validateComponents("people.seniority.components", c.People.Seniority.Components)
	validateComponents("people.domain.components", c.People.Domain.Components)
	validateComponents("people.one_offs", c.People.OneOffs)

	for name, comp := range c.People.OneOffs {
		if comp != nil && comp.IsModifier() {
			errs = append(errs, fmt.Sprintf("people.one_offs.%s must set a score, not a modifier", name))
		}
	}

	for name, v := range c.People.Warmth.Vectors {
		if v.Points <= 0 || v.Points > 100 {
			errs = append(errs, fmt.Sprintf("people.warmth.vectors.%s points must be in (0, 100]", name))
		}
		if v.HalfLifeDays <= 0 {
			errs = append(errs, fmt.Sprintf("people.warmth.vectors.%s half_life_days must be > 0", name))
		}
	}

	for i, stage := range c.Company.Demand.Stages {
		if strings.TrimSpace(stage.Match) == "" {
			errs = append(errs, fmt.Sprintf("company.demand.stages[%d] has no match string", i))
		}
		if stage.Points <= 0 {
			errs = append(errs, fmt.Sprintf("company.demand.stages[%d] points must be > 0", i))
		}
		if stage.HalfLifeDays <= 0 {
			errs = append(errs, fmt.Sprintf("company.demand.stages[%d] half_life_days must be > 0", i))
		}
	}

	vol := c.Company.Demand.Volatility
	volSum := vol.RevenueWeight + vol.RunwayWeight + vol.HeadcountWeight
	if vol.MaxPoints > 0 && volSum <= 0 {
		errs = append(errs, "company.demand.volatility weights must sum to > 0")
	}
	if vol.MaxPoints > 0 && vol.RunwayHalfLifeDays <= 0 {
		errs = append(errs, "company.demand.volatility.runway_half_life_days must be > 0")
	}

	if math.Signbit(c.Company.Demand.HiringPoints) {
		errs = append(errs, "company.demand.hiring_points must be >= 0")
	}
	if c.Company.Demand.HiringPoints > 0 && c.Company.Demand.HiringHalfLifeDays <= 0 {
		errs = append(errs, "company.demand.hiring_half_life_days must be > 0")
	}

	for name, score := range c.Sources.Reliability {
		if score < 0 || score > 100 {
			errs = append(errs, fmt.Sprintf("sources.reliability.%s must be between 0 and 100", name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("tuning: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
