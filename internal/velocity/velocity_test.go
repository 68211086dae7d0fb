package velocity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadrank-cli/internal/model"
)

var velNow = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func scoredFixture() []model.ScoredPerson {
	return []model.ScoredPerson{
		{Person: model.Person{Sources: []string{"lisn"}}, LeadScore: 95, ContactScore: 90, MatchedCompany: "Acme Studios"},
		{Person: model.Person{Sources: []string{"lisn"}}, LeadScore: 62, ContactScore: 70, MatchedCompany: "Supercell"},
		{Person: model.Person{Sources: []string{"mtm"}}, LeadScore: 45, ContactScore: 40},
		{Person: model.Person{Sources: []string{"mtm"}}, LeadScore: 5, ContactScore: 10},
	}
}

func TestCompute(t *testing.T) {
	e := Compute("gdc_sf_26", "v1", scoredFixture(), nil, velNow)

	assert.Equal(t, 4, e.TotalPeople)
	assert.Equal(t, 2, e.Matched)
	assert.Equal(t, 50.0, e.MatchRate)
	assert.Equal(t, map[string]int{"lisn": 2, "mtm": 2}, e.Sources)

	assert.Equal(t, 1, e.Tiers.Manual90Plus)
	assert.Equal(t, 1, e.Tiers.High60Plus)
	assert.Equal(t, 1, e.Tiers.Mid40To59)
	assert.Equal(t, 1, e.Tiers.NoiseBelow10)
	assert.Equal(t, 3, e.Tiers.High())

	assert.Equal(t, 5.0, e.LeadScore.Min)
	assert.Equal(t, 95.0, e.LeadScore.Max)
	assert.Equal(t, 51.8, e.LeadScore.Mean)
	assert.Equal(t, 53.5, e.LeadScore.Median)

	assert.Nil(t, e.Delta)
}

func TestCompute_Delta(t *testing.T) {
	prev := Compute("gdc_sf_26", "v1", scoredFixture()[:2], nil, velNow.AddDate(0, 0, -7))
	curr := Compute("gdc_sf_26", "v2", scoredFixture(), &prev, velNow)

	require.NotNil(t, curr.Delta)
	assert.Equal(t, 2, curr.Delta.NewPeople)
	assert.Equal(t, 0, curr.Delta.NewMatched)
	assert.Equal(t, "v1", curr.Delta.PreviousVersion)
	assert.Equal(t, -50.0, curr.Delta.MatchRateChange)
}

func TestCompute_Empty(t *testing.T) {
	e := Compute("gdc_sf_26", "v1", nil, nil, velNow)
	assert.Equal(t, 0, e.TotalPeople)
	assert.Equal(t, 0.0, e.MatchRate)
	assert.Equal(t, ScoreSummary{}, e.LeadScore)
}

func TestFormatText(t *testing.T) {
	e := Compute("gdc_sf_26", "v1", scoredFixture(), nil, velNow)
	out := FormatText("gdc_sf_26", []Entry{e}, velNow)

	assert.Contains(t, out, "GDC SF 26 - SIGNAL VELOCITY REPORT")
	assert.Contains(t, out, "v1: 4 people | 2 matched (50.0%)")
}

func TestFormatText_NoData(t *testing.T) {
	out := FormatText("gdc_sf_26", nil, velNow)
	assert.Equal(t, "No velocity data for gdc_sf_26.", out)
}

func TestFormatMarkdown(t *testing.T) {
	prev := Compute("gdc_sf_26", "v1", scoredFixture()[:2], nil, velNow.AddDate(0, 0, -7))
	curr := Compute("gdc_sf_26", "v2", scoredFixture(), &prev, velNow)
	out := FormatMarkdown("gdc_sf_26", []Entry{prev, curr}, velNow)

	assert.True(t, strings.HasPrefix(out, "## GDC SF 26 - Signal Velocity Report"))
	assert.Contains(t, out, "| v2 | 4 | 2 | 50.0% |")
	assert.Contains(t, out, "### Latest: v2")
	assert.Contains(t, out, "**vs v1:**")
	assert.Contains(t, out, "- lisn: 2")
}
