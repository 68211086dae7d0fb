// Package stats provides the population-relative primitives the scorers are
// built on: min-max normalization, percentile ranks, half-life decay, and the
// baseline artifact for absolute-mode normalization.
package stats

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Range holds the min/max frame of reference for absolute-mode normalization.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// midpoint is the value every member of a degenerate (all-equal) population
// normalizes to.
const midpoint = 50.0

// MinMax rescales values linearly so the population minimum maps to 0 and the
// maximum to 100. A population where every value is equal maps to the
// midpoint. An empty population is a contract violation.
func MinMax(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, eris.New("stats: min-max normalization over empty population")
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max == min {
		for i := range out {
			out[i] = midpoint
		}
		return out, nil
	}

	for i, v := range values {
		out[i] = (v - min) / (max - min) * 100
	}
	return out, nil
}

// MinMaxAgainst rescales values against an externally supplied baseline range
// instead of the population itself, clipping to [0,100]. This lets a small new
// dataset be compared against a large historical frame of reference.
func MinMaxAgainst(values []float64, baseline Range) []float64 {
	out := make([]float64, len(values))
	if baseline.Max == baseline.Min {
		for i := range out {
			out[i] = midpoint
		}
		return out
	}

	for i, v := range values {
		n := (v - baseline.Min) / (baseline.Max - baseline.Min) * 100
		if n < 0 {
			n = 0
		}
		if n > 100 {
			n = 100
		}
		out[i] = n
	}
	return out
}

// PercentileRank returns, for each value, its average-rank percentile within
// the population, scaled to 0-100: (count below + (ties+1)/2) / n. Ties
// receive the same rank. The population maximum maps to 100 when unique.
func PercentileRank(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, eris.New("stats: percentile rank over empty population")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = rankOf(v, sorted)
	}
	return out, nil
}

// PercentileOf returns the average-rank percentile of a single value within a
// population. The population need not contain the value.
func PercentileOf(value float64, population []float64) float64 {
	if len(population) == 0 {
		return 0
	}
	sorted := make([]float64, len(population))
	copy(sorted, population)
	sort.Float64s(sorted)
	return rankOf(value, sorted)
}

// rankOf computes the average-rank percentile of v against an ascending
// sorted population.
func rankOf(v float64, sorted []float64) float64 {
	below := sort.SearchFloat64s(sorted, v)
	atOrBelow := sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
	ties := atOrBelow - below
	if ties == 0 {
		// Value absent from the population: rank by weak position.
		return float64(below) / float64(len(sorted)) * 100
	}
	rank := float64(below) + (float64(ties)+1)/2
	return rank / float64(len(sorted)) * 100
}

// MeanAbsoluteDeviation returns the mean absolute deviation from the mean.
// An empty or single-element series has zero deviation.
func MeanAbsoluteDeviation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var dev float64
	for _, v := range values {
		d := v - mean
		if d < 0 {
			d = -d
		}
		dev += d
	}
	return dev / float64(len(values))
}

// AllZero reports whether every value in the series is exactly zero. Pillar
// normalization keeps an all-zero population at zero instead of inflating it
// to the midpoint.
func AllZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

// NormalizePillar min-max normalizes a pillar's raw scores across the
// population, keeping an all-zero population at zero.
func NormalizePillar(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, eris.New("stats: pillar normalization over empty population")
	}
	if AllZero(values) {
		return make([]float64, len(values)), nil
	}
	return MinMax(values)
}
