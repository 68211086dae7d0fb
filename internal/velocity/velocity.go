// Package velocity tracks iteration-over-iteration scoring momentum for a
// conference: list growth, match rate, and lead score distribution. The
// reports answer "is the list getting bigger and better between runs".
package velocity

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sells-group/leadrank-cli/internal/model"
)

// Tiers carves the lead score range into the outreach buckets the team works
// from.
type Tiers struct {
	Manual90Plus int `json:"tier_manual_90plus"`
	High60Plus   int `json:"tier_high_60plus"`
	Mid40To59    int `json:"tier_mid_40_59"`
	Auto20To39   int `json:"tier_auto_20_39"`
	Low10To19    int `json:"tier_low_10_19"`
	NoiseBelow10 int `json:"tier_noise_below_10"`
}

// High counts the leads worth a human look (40 and up).
func (t Tiers) High() int {
	return t.Manual90Plus + t.High60Plus + t.Mid40To59
}

// ScoreSummary holds the central moments of one score column.
type ScoreSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Delta compares an iteration to the one before it.
type Delta struct {
	NewPeople       int     `json:"new_people"`
	NewMatched      int     `json:"new_matched"`
	MatchRateChange float64 `json:"match_rate_change"`
	MeanLeadChange  float64 `json:"mean_lead_score_change"`
	PreviousVersion string  `json:"previous_version"`
}

// Entry is one recorded scoring iteration.
type Entry struct {
	Conference   string         `json:"conference"`
	Version      string         `json:"version"`
	RecordedAt   time.Time      `json:"recorded_at"`
	TotalPeople  int            `json:"total_people"`
	Matched      int            `json:"company_matched"`
	MatchRate    float64        `json:"company_match_rate"`
	Sources      map[string]int `json:"sources"`
	LeadScore    ScoreSummary   `json:"lead_score"`
	ContactScore ScoreSummary   `json:"contact_score"`
	Tiers        Tiers          `json:"tiers"`
	Delta        *Delta         `json:"delta,omitempty"`
}

// Compute summarizes one scored run. The previous entry, when present, feeds
// the delta block.
func Compute(conference, version string, scored []model.ScoredPerson, prev *Entry, now time.Time) Entry {
	e := Entry{
		Conference:  conference,
		Version:     version,
		RecordedAt:  now,
		TotalPeople: len(scored),
		Sources:     make(map[string]int),
	}

	var leadScores, contactScores []float64
	for _, p := range scored {
		leadScores = append(leadScores, p.LeadScore)
		contactScores = append(contactScores, p.ContactScore)
		if p.MatchedCompany != "" {
			e.Matched++
		}
		for _, src := range p.Sources {
			e.Sources[src]++
		}

		switch {
		case p.LeadScore >= 90:
			e.Tiers.Manual90Plus++
		case p.LeadScore >= 60:
			e.Tiers.High60Plus++
		case p.LeadScore >= 40:
			e.Tiers.Mid40To59++
		case p.LeadScore >= 20:
			e.Tiers.Auto20To39++
		case p.LeadScore >= 10:
			e.Tiers.Low10To19++
		default:
			e.Tiers.NoiseBelow10++
		}
	}
	if e.TotalPeople > 0 {
		e.MatchRate = round1(float64(e.Matched) / float64(e.TotalPeople) * 100)
	}
	e.LeadScore = summarize(leadScores)
	e.ContactScore = summarize(contactScores)

	if prev != nil {
		e.Delta = &Delta{
			NewPeople:       e.TotalPeople - prev.TotalPeople,
			NewMatched:      e.Matched - prev.Matched,
			MatchRateChange: round1(e.MatchRate - prev.MatchRate),
			MeanLeadChange:  round1(e.LeadScore.Mean - prev.LeadScore.Mean),
			PreviousVersion: prev.Version,
		}
	}
	return e
}

func summarize(values []float64) ScoreSummary {
	if len(values) == 0 {
		return ScoreSummary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return ScoreSummary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   round1(sum / float64(len(values))),
		Median: round1(median),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatText renders the velocity log as a plain-text report.
func FormatText(conference string, log []Entry, now time.Time) string {
	if len(log) == 0 {
		return fmt.Sprintf("No velocity data for %s.", conference)
	}

	rule := strings.Repeat("=", 60)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "  %s - SIGNAL VELOCITY REPORT\n", confLabel(conference))
	fmt.Fprintf(&b, "  Generated: %s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "%s\n\n", rule)

	for _, e := range log {
		fmt.Fprintf(&b, "  %s: %d people | %d matched (%.1f%%) | Mean Lead: %.1f | High (40+): %d\n",
			e.Version, e.TotalPeople, e.Matched, e.MatchRate, e.LeadScore.Mean, e.Tiers.High())
		if e.Delta != nil {
			fmt.Fprintf(&b, "    vs %s: %+d people, %+d matched, mean lead %+.1f\n",
				e.Delta.PreviousVersion, e.Delta.NewPeople, e.Delta.NewMatched, e.Delta.MeanLeadChange)
		}
		b.WriteString("\n")
	}
	b.WriteString(rule)
	return b.String()
}

// FormatMarkdown renders the velocity log as a markdown report with a summary
// table and a detail block for the latest iteration.
func FormatMarkdown(conference string, log []Entry, now time.Time) string {
	if len(log) == 0 {
		return fmt.Sprintf("No velocity data for %s.", conference)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s - Signal Velocity Report\n\n", confLabel(conference))
	fmt.Fprintf(&b, "*Generated: %s*\n\n", now.Format("2006-01-02 15:04"))

	b.WriteString("| Version | People | Matched | Match % | Mean Lead | High (40+) | New People |\n")
	b.WriteString("|---------|--------|---------|---------|-----------|------------|------------|\n")
	for _, e := range log {
		newPeople := ""
		if e.Delta != nil {
			newPeople = fmt.Sprintf("%+d", e.Delta.NewPeople)
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %.1f%% | %.1f | %d | %s |\n",
			e.Version, e.TotalPeople, e.Matched, e.MatchRate, e.LeadScore.Mean, e.Tiers.High(), newPeople)
	}

	latest := log[len(log)-1]
	fmt.Fprintf(&b, "\n### Latest: %s (%s)\n\n", latest.Version, latest.RecordedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**%d people** scored, **%d** matched to companies (%.1f%%)\n\n",
		latest.TotalPeople, latest.Matched, latest.MatchRate)
	b.WriteString("**Lead Score Distribution:**\n")
	fmt.Fprintf(&b, "- Manual review (90+): **%d**\n", latest.Tiers.Manual90Plus)
	fmt.Fprintf(&b, "- High priority (60-89): **%d**\n", latest.Tiers.High60Plus)
	fmt.Fprintf(&b, "- Mid (40-59): **%d**\n", latest.Tiers.Mid40To59)
	fmt.Fprintf(&b, "- Auto outreach (20-39): **%d**\n", latest.Tiers.Auto20To39)
	fmt.Fprintf(&b, "- Low (10-19): **%d**\n", latest.Tiers.Low10To19)
	fmt.Fprintf(&b, "- Noise (<10): **%d**\n", latest.Tiers.NoiseBelow10)

	if latest.Delta != nil {
		d := latest.Delta
		fmt.Fprintf(&b, "\n**vs %s:** %+d people, %+d matched, match rate %+.1f%%, mean lead %+.1f\n",
			d.PreviousVersion, d.NewPeople, d.NewMatched, d.MatchRateChange, d.MeanLeadChange)
	}

	if len(latest.Sources) > 0 {
		b.WriteString("\n**Sources:**\n")
		labels := make([]string, 0, len(latest.Sources))
		for src := range latest.Sources {
			labels = append(labels, src)
		}
		sort.Strings(labels)
		for _, src := range labels {
			fmt.Fprintf(&b, "- %s: %d\n", src, latest.Sources[src])
		}
	}
	return b.String()
}

func confLabel(conference string) string {
	return strings.ToUpper(strings.ReplaceAll(conference, "_", " "))
}
