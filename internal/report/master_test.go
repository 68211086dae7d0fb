package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadrank-cli/internal/model"
)

func snap(label string, date time.Time, people ...model.ScoredPerson) Snapshot {
	return Snapshot{SourceList: label, Date: date, People: people}
}

func scored(first, last, title, company string, contact, lead float64) model.ScoredPerson {
	return model.ScoredPerson{
		Person: model.Person{
			FirstName: first, LastName: last, JobTitle: title, CompanyName: company,
		},
		ContactScore: contact,
		LeadScore:    lead,
	}
}

func TestBuildMaster(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	older := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	snapshots := []Snapshot{
		snap("gdc_sf_26 v1", older,
			scored("Ann", "Lee", "CEO", "Acme Studios", 80, 70),
			scored("Bob", "Roy", "", "Supercell", 40, 20),
		),
		snap("gdc_sf_26 v2", newer,
			scored("Ann", "Lee", "CEO", "Acme Studios", 90, 95), // same key, newer wins
			scored("Cat", "Day", "VP UA", "Playrix", 60, 55),
		),
	}

	master, baseline, err := BuildMaster(snapshots, now)
	require.NoError(t, err)
	require.Len(t, master, 3)

	// Ann's newer scores survived the dedup.
	var ann model.ScoredPerson
	for _, p := range master {
		if p.FirstName == "Ann" {
			ann = p
		}
	}
	assert.Equal(t, 95.0, ann.LeadScore)

	assert.Equal(t, now, baseline.GeneratedAt)
	assert.Equal(t, 3, baseline.Population)
	assert.Equal(t, 20.0, baseline.LeadScore.Min)
	assert.Equal(t, 95.0, baseline.LeadScore.Max)
	assert.Equal(t, 40.0, baseline.ContactScore.Min)
	assert.Equal(t, 90.0, baseline.ContactScore.Max)
	assert.Equal(t, []string{"gdc_sf_26 v1", "gdc_sf_26 v2"}, baseline.SourceLists)
}

func TestBuildMaster_KeyIncludesTitle(t *testing.T) {
	now := time.Now()
	snapshots := []Snapshot{
		snap("v1", now,
			scored("Ann", "Lee", "CEO", "Acme Studios", 80, 70),
			scored("Ann", "Lee", "Board Member", "Acme Studios", 50, 45),
		),
	}

	master, _, err := BuildMaster(snapshots, now)
	require.NoError(t, err)
	// Different titles are different master rows.
	assert.Len(t, master, 2)
}

func TestBuildMaster_Empty(t *testing.T) {
	_, _, err := BuildMaster(nil, time.Now())
	assert.Error(t, err)

	_, _, err = BuildMaster([]Snapshot{snap("v1", time.Now())}, time.Now())
	assert.Error(t, err)
}
