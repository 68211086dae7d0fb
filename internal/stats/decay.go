package stats

import (
	"math"
	"time"
)

// defaultHalfLife guards against a zero half-life slipping past config
// validation.
const defaultHalfLife = 365 * 24 * time.Hour

// Decay returns the half-life attenuation multiplier for a signal of the
// given age: 0.5^(age/halfLife). Age at or below zero decays nothing.
func Decay(age, halfLife time.Duration) float64 {
	if age <= 0 {
		return 1
	}
	if halfLife <= 0 {
		halfLife = defaultHalfLife
	}
	return math.Pow(0.5, age.Hours()/halfLife.Hours())
}

// DecayAt returns the attenuation multiplier for a signal that occurred at
// the given time. A missing (zero) timestamp means the signal contributes
// nothing.
func DecayAt(occurredAt, now time.Time, halfLife time.Duration) float64 {
	if occurredAt.IsZero() {
		return 0
	}
	return Decay(now.Sub(occurredAt), halfLife)
}
