package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/match"
	"github.com/sells-group/leadrank-cli/internal/model"
)

// ReadCompanies parses the wide company staging sheet into Company records.
// Numeric cells tolerate currency and percent formatting; binary flags use
// the "X" convention. Source evidence for the confidence calculator is
// derived from which channel-suffixed columns carry data.
func ReadCompanies(path string, opts Options) ([]model.Company, error) {
	rows, err := readTable(path, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("ingest: %s is empty", path)
	}

	h := newHeader(rows[0])
	if !h.has("company name") {
		return nil, eris.Errorf("ingest: %s missing required column Company Name", path)
	}

	var companies []model.Company
	skipped := 0
	for _, row := range rows[1:] {
		name := h.get(row, "company name")
		if name == "" {
			skipped++
			continue
		}

		c := model.Company{
			Name:    name,
			URL:     h.get(row, "website url", "url"),
			Country: h.get(row, "country"),
			Type:    strings.ToLower(h.get(row, "type")),

			MakesGames: flag(h.get(row, "makes games")),
			F2P:        flag(h.get(row, "f2p")),
			Mobile:     flag(h.get(row, "mobile")),

			Revenue30D:    safeFloat(h.get(row, "rev <30d (st)")),
			AnnualRevenue: safeFloat(h.get(row, "annual revenue (growjo)")),
			TotalFunding:  safeFloat(h.get(row, "total funding amount")),
			Headcount:     safeFloat(h.get(row, "current employee count (gj)")),

			RevenueChangePct:   safeFloat(h.get(row, "rev change % (st)")),
			HeadcountChangePct: safeFloat(h.get(row, "employee change % (gj)")),
			LatestFunding:      safeFloat(h.get(row, "latest funding amount")),
			LatestFundingDate:  parseDate(h.get(row, "latest funding date")),
			HiringSignal:       safeFloat(h.get(row, "hiring signal")),
			HiringSignalDate:   parseDate(h.get(row, "hiring signal date")),
		}

		if nn := h.get(row, "normalized name"); nn != "" {
			c.NormalName = nn
		} else {
			c.NormalName = match.NormalizeName(name)
		}

		if y := safeFloat(h.get(row, "founded year")); y != nil {
			c.FoundedYear = int(*y)
		}

		if status := h.get(row, "close status"); status != "" {
			c.FunnelEvents = append(c.FunnelEvents, model.FunnelEvent{
				Stage:     status,
				ChangedAt: parseDate(h.get(row, "close status change dt")),
			})
		}

		if reason := h.get(row, "flag"); reason != "" {
			c.Blacklisted = true
			c.BlacklistReason = reason
		}

		if created := parseDate(h.get(row, "created date")); !created.IsZero() {
			c.CreatedAt = created
		}

		c.Evidence = evidenceFor(c)
		companies = append(companies, c)
	}

	zap.L().Info("parsed companies file",
		zap.String("path", path),
		zap.Int("rows", len(companies)),
		zap.Int("skipped_no_name", skipped),
	)
	return companies, nil
}

// evidenceFor records which channel contributed data to each pillar. Pillar
// points stay empty here; the staging sheet carries one value per signal, so
// there is no cross-source disagreement to measure.
func evidenceFor(c model.Company) map[string]model.PillarEvidence {
	ev := map[string]model.PillarEvidence{}

	add := func(pillar, source string) {
		e := ev[pillar]
		for _, s := range e.Sources {
			if s == source {
				return
			}
		}
		e.Sources = append(e.Sources, source)
		ev[pillar] = e
	}

	if c.MakesGames || c.F2P || c.Mobile || c.FoundedYear > 0 || c.Type != "" {
		add(model.PillarAlignment, "manual")
	}

	if c.Revenue30D != nil {
		add(model.PillarBudget, "sensortower")
	}
	if c.AnnualRevenue != nil || c.Headcount != nil {
		add(model.PillarBudget, "growjo")
	}
	if c.TotalFunding != nil {
		add(model.PillarBudget, "manual")
	}

	if len(c.FunnelEvents) > 0 || c.LatestFunding != nil {
		add(model.PillarDemand, "crm")
	}
	if c.RevenueChangePct != nil {
		add(model.PillarDemand, "sensortower")
	}
	if c.HeadcountChangePct != nil {
		add(model.PillarDemand, "growjo")
	}
	if c.HiringSignal != nil {
		add(model.PillarDemand, "manual")
	}

	if len(ev) == 0 {
		return nil
	}
	return ev
}

// flag reports whether a binary spreadsheet cell is set ("X" convention).
func flag(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "x")
}

// safeFloat parses a numeric cell, stripping currency and percent formatting.
// Unparseable or blank cells are missing, not zero.
func safeFloat(value string) *float64 {
	clean := strings.NewReplacer("$", "", ",", "", "%", "").Replace(value)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}
	return &f
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
}

// parseDate parses a date cell in any of the spreadsheet's date formats,
// returning the zero time when blank or unparseable.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
