package scorer

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/stats"
	"github.com/sells-group/leadrank-cli/internal/tuning"
)

// Confidence measures how much data, and how reliable that data is, backs
// each company's pillar scores. Like the scores themselves it is
// population-relative.
type Confidence struct {
	cfg *tuning.Config
}

// NewConfidence returns a calculator bound to the source reliability table.
func NewConfidence(cfg *tuning.Config) *Confidence {
	return &Confidence{cfg: cfg}
}

// Score computes per-pillar and entity confidence for every company. The
// entity confidence weights pillars the same way the company score does, then
// renormalizes across the population. A pillar with zero data sources floors
// at 0, never NaN.
func (c *Confidence) Score(companies []model.Company) ([]float64, map[string][]float64, error) {
	n := len(companies)
	if n == 0 {
		return nil, nil, eris.New("scorer: confidence over empty population")
	}

	pillars := []string{model.PillarAlignment, model.PillarBudget, model.PillarDemand}
	perPillar := make(map[string][]float64, len(pillars))
	for _, pillar := range pillars {
		conf, err := c.pillarConfidence(companies, pillar)
		if err != nil {
			return nil, nil, err
		}
		perPillar[pillar] = conf
	}

	wAlign := c.cfg.Company.Alignment.Weight
	wBudget := c.cfg.Company.Budget.Weight
	wDemand := c.cfg.Company.Demand.Weight
	wSum := wAlign + wBudget + wDemand

	rawEntity := make([]float64, n)
	for i := 0; i < n; i++ {
		rawEntity[i] = (perPillar[model.PillarAlignment][i]*wAlign +
			perPillar[model.PillarBudget][i]*wBudget +
			perPillar[model.PillarDemand][i]*wDemand) / wSum
	}

	entity, err := stats.NormalizePillar(rawEntity)
	if err != nil {
		return nil, nil, err
	}
	return entity, perPillar, nil
}

// pillarConfidence computes one pillar's confidence across the population:
// Strength = percentile rank of the source count damped by disagreement
// between data points, Quality = normalized mean source reliability,
// confidence = normalize(Strength x Quality).
func (c *Confidence) pillarConfidence(companies []model.Company, pillar string) ([]float64, error) {
	n := len(companies)

	counts := make([]float64, n)
	for i, company := range companies {
		counts[i] = float64(len(company.Evidence[pillar].Sources))
	}

	raw := make([]float64, n)
	qualityRaw := make([]float64, n)
	for i, company := range companies {
		ev := company.Evidence[pillar]
		if len(ev.Sources) == 0 {
			continue
		}

		strength := stats.PercentileOf(counts[i], counts) / 100 *
			agreement(ev.Points)

		var sum float64
		for _, src := range ev.Sources {
			sum += c.cfg.Sources.Reliability[src]
		}
		qualityRaw[i] = sum / float64(len(ev.Sources))
		raw[i] = strength
	}

	quality, err := stats.NormalizePillar(qualityRaw)
	if err != nil {
		return nil, err
	}
	for i := range raw {
		raw[i] *= quality[i]
	}
	return stats.NormalizePillar(raw)
}

// agreement inverts the spread of a pillar's data points: perfectly agreeing
// sources score 1, widely disagreeing sources approach 0.
func agreement(points []float64) float64 {
	return 1 / (1 + stats.MeanAbsoluteDeviation(points))
}
