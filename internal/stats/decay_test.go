package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecay_ZeroAge(t *testing.T) {
	assert.Equal(t, 1.0, Decay(0, 180*24*time.Hour))
	assert.Equal(t, 1.0, Decay(-time.Hour, 180*24*time.Hour))
}

func TestDecay_OneHalfLife(t *testing.T) {
	h := 90 * 24 * time.Hour
	assert.InDelta(t, 0.5, Decay(h, h), 1e-9)
}

func TestDecay_Curve(t *testing.T) {
	halfLife := 180 * 24 * time.Hour

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"30d", 30 * 24 * time.Hour, math.Pow(0.5, 30.0/180)},
		{"90d", 90 * 24 * time.Hour, math.Pow(0.5, 90.0/180)},
		{"180d", 180 * 24 * time.Hour, 0.5},
		{"360d", 360 * 24 * time.Hour, 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Decay(tc.age, halfLife), 1e-9)
		})
	}
}

func TestDecay_ZeroHalfLifeFallsBack(t *testing.T) {
	got := Decay(365*24*time.Hour, 0)
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestDecayAt_MissingTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, DecayAt(time.Time{}, now, 90*24*time.Hour))
}

func TestDecayAt_FutureTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	assert.Equal(t, 1.0, DecayAt(future, now, 90*24*time.Hour))
}
