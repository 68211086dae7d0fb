package report

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/stats"
)

// Snapshot is one scored output set feeding the master list rebuild,
// typically one conference iteration.
type Snapshot struct {
	SourceList string // label for provenance, e.g. "gdc_sf_26 v3"
	Date       time.Time
	People     []model.ScoredPerson
}

// BuildMaster aggregates scored snapshots into the deduplicated master
// people list and the min/max baseline the normalizers use for absolute
// mode. Dedup key is normalized name + title + company; the newest snapshot
// wins a collision.
func BuildMaster(snapshots []Snapshot, now time.Time) ([]model.ScoredPerson, stats.Baseline, error) {
	if len(snapshots) == 0 {
		return nil, stats.Baseline{}, eris.New("report: no scored snapshots to build master list from")
	}

	// Newest first, so the first row seen per key is the one kept.
	ordered := make([]Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	seen := map[string]bool{}
	var master []model.ScoredPerson
	sourceLists := map[string]bool{}
	for _, snap := range ordered {
		sourceLists[snap.SourceList] = true
		for _, p := range snap.People {
			key := masterKey(p)
			if key == "||" || seen[key] {
				continue
			}
			seen[key] = true
			master = append(master, p)
		}
	}
	if len(master) == 0 {
		return nil, stats.Baseline{}, eris.New("report: master list is empty")
	}

	baseline := stats.Baseline{
		GeneratedAt:  now,
		Population:   len(master),
		ContactScore: scoreRange(master, func(p model.ScoredPerson) float64 { return p.ContactScore }),
		LeadScore:    scoreRange(master, func(p model.ScoredPerson) float64 { return p.LeadScore }),
	}
	for list := range sourceLists {
		baseline.SourceLists = append(baseline.SourceLists, list)
	}
	sort.Strings(baseline.SourceLists)

	zap.L().Info("rebuilt master list",
		zap.Int("people", len(master)),
		zap.Int("snapshots", len(snapshots)),
		zap.Float64("lead_min", baseline.LeadScore.Min),
		zap.Float64("lead_max", baseline.LeadScore.Max),
	)
	return master, baseline, nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)
var multiSpace = regexp.MustCompile(`\s+`)

// masterKey builds the dedup key: lowercased alphanumeric name, title, and
// company joined by pipes.
func masterKey(p model.ScoredPerson) string {
	return normalizeKey(p.FullName()) + "|" + normalizeKey(p.JobTitle) + "|" + normalizeKey(p.CompanyName)
}

func normalizeKey(s string) string {
	s = nonAlnum.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

func scoreRange(people []model.ScoredPerson, value func(model.ScoredPerson) float64) stats.Range {
	r := stats.Range{Min: value(people[0]), Max: value(people[0])}
	for _, p := range people[1:] {
		v := value(p)
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r
}
